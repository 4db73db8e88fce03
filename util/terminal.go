package util

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalSize reports the size of the terminal attached to stdout.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintErasable writes a status line to stdout and returns a function that blanks it again.
func PrintErasable(msg string) (erase func()) {
	fmt.Fprint(os.Stdout, "\r"+msg)
	return func() {
		fmt.Fprint(os.Stdout, "\r"+strings.Repeat(" ", len(msg))+"\r")
	}
}
