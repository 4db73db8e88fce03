package version

import (
	"fmt"
	"strconv"
	"strings"
)

// parse reads a MAJOR.MINOR.PATCH version, ignoring a leading "v" and any pre-release or build suffix.
func parse(s string) ([3]int, error) {
	var v [3]int

	core := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}

	parts := strings.Split(core, ".")
	if len(parts) != len(v) {
		return v, fmt.Errorf("malformed version %q", s)
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return v, fmt.Errorf("malformed version %q", s)
		}
		v[i] = n
	}

	return v, nil
}

// Compare orders two versions: 1 if a is newer, -1 if b is newer and 0 when they match.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range av {
		switch {
		case av[i] > bv[i]:
			return 1, nil
		case av[i] < bv[i]:
			return -1, nil
		}
	}

	return 0, nil
}
