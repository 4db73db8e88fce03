package download

import (
	"math"
	"sync/atomic"
)

// ProgressFunc receives the completed percentage of a transfer, in [0, 100].
type ProgressFunc func(percent int)

// counter is an io.Writer that tracks bytes written and reports percentage changes.
// Nothing is reported when the total size is unknown.
type counter struct {
	total    int64
	written  atomic.Int64
	last     int
	progress ProgressFunc
}

func newCounter(total int64, progress ProgressFunc) *counter {
	return &counter{total: total, last: -1, progress: progress}
}

func (c *counter) Write(p []byte) (int, error) {
	written := c.written.Add(int64(len(p)))
	if c.progress == nil || c.total <= 0 {
		return len(p), nil
	}

	percent := Percent(written, c.total)
	if percent != c.last {
		c.last = percent
		c.progress(percent)
	}

	return len(p), nil
}

// Percent rounds loaded/total to a whole percentage, clamped to [0, 100].
// An unknown total yields zero.
func Percent(loaded, total int64) int {
	if total <= 0 {
		return 0
	}

	percent := int(math.Round(float64(loaded) / float64(total) * 100))
	switch {
	case percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}
