// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/vidgrab/vidgrab/api"
	"github.com/vidgrab/vidgrab/color"
	"github.com/vidgrab/vidgrab/icon"
	"github.com/vidgrab/vidgrab/style"
	"github.com/vidgrab/vidgrab/util"
)

var formatHeaders = []string{"ID", "EXT", "NOTE", "RESOLUTION", "SIZE", "AUDIO", "VIDEO"}

func formatRow(f api.Format) []string {
	return []string{
		f.FormatID,
		f.Ext,
		f.FormatNote,
		lo.Ternary(f.Resolution() == "", "-", f.Resolution()),
		util.HumanFileSize(f.Filesize),
		lo.Ternary(f.ACodec == "", "-", f.ACodec),
		lo.Ternary(f.VCodec == "", "-", f.VCodec),
	}
}

func formatsTable(formats []api.Format) string {
	headerStyle := style.New().Bold(true).Foreground(color.Purple).Padding(0, 1)
	cellStyle := style.New().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(style.New().Foreground(color.Gray)).
		Headers(formatHeaders...).
		Rows(lo.Map(formats, func(f api.Format, _ int) []string {
			return formatRow(f)
		})...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func renderItem(item *Item) string {
	if item.Info == nil {
		return fmt.Sprintf("%s %s\n%s", icon.Get(icon.Fail), item.URL, style.Fg(color.Red)(item.Error))
	}

	info := item.Info
	lines := []string{
		style.Bold(lo.Ternary(info.Title == "", item.URL, info.Title)),
		fmt.Sprintf(
			"Uploader: %s • Duration: %ss • ID: %s",
			info.Uploader,
			strconv.FormatFloat(info.Duration, 'f', -1, 64),
			info.ID,
		),
	}

	if thumbnail, ok := info.Thumbnail().Get(); ok {
		lines = append(lines, style.Faint("Thumbnail: "+thumbnail))
	}

	if len(info.Formats) == 0 {
		lines = append(lines, style.Faint("No formats"))
	} else {
		lines = append(lines, formatsTable(info.Formats))
	}

	return strings.Join(lines, "\n")
}

func writeTable(out io.Writer, output *Output) error {
	rendered := lo.Map(output.Result, func(item *Item, _ int) string {
		return renderItem(item)
	})

	_, err := fmt.Fprintln(out, strings.Join(rendered, "\n\n"))
	return err
}
