package util

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// HumanFileSize renders a byte count using 1024-based units with one decimal place.
// Unknown or zero sizes are rendered as "-".
func HumanFileSize(bytes int64) string {
	if bytes == 0 {
		return "-"
	}

	const thresh = 1024
	if bytes > -thresh && bytes < thresh {
		return strconv.FormatInt(bytes, 10) + " B"
	}

	value := float64(bytes)
	u := -1
	for {
		value /= thresh
		u++
		if math.Abs(value) < thresh || u >= len(sizeUnits)-1 {
			break
		}
	}

	return strconv.FormatFloat(value, 'f', 1, 64) + " " + sizeUnits[u]
}
