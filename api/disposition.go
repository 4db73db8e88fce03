package api

import (
	"mime"
	"regexp"
	"strings"

	"github.com/vidgrab/vidgrab/util"
)

// looseFilename matches filename directives mime.ParseMediaType rejects,
// such as unquoted names containing spaces.
var looseFilename = regexp.MustCompile(`filename="?(?P<name>[^";]+)"?`)

// FilenameFromDisposition extracts the suggested filename of a Content-Disposition header.
// The fallback is returned when the header carries no usable filename.
func FilenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}

	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := strings.TrimSpace(params["filename"]); name != "" {
			return name
		}
		return fallback
	}

	if name := strings.TrimSpace(util.ReGroups(looseFilename, header)["name"]); name != "" {
		return name
	}

	return fallback
}
