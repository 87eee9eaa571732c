// Package progress prints a live counter for valuation and refresh passes,
// which can take minutes when the collection is large and every item hits
// rate-limited sources.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Indicator tracks one pass over the collection.
type Indicator struct {
	w       io.Writer
	message string
	total   int
	current int
	started time.Time
	lastOut time.Time
}

// New creates an indicator writing to stderr. A zero total renders a plain
// counter instead of a percentage.
func New(message string, total int) *Indicator {
	return &Indicator{w: os.Stderr, message: message, total: total}
}

// NewTo writes to an arbitrary writer. Tests use this.
func NewTo(w io.Writer, message string, total int) *Indicator {
	return &Indicator{w: w, message: message, total: total}
}

func (p *Indicator) Start() {
	p.started = time.Now()
	p.lastOut = p.started
	fmt.Fprintf(p.w, "%s...\n", p.message)
}

// Step records one finished item. Output is throttled so a fast pass does
// not flood the terminal.
func (p *Indicator) Step(label string) {
	p.current++
	now := time.Now()
	if now.Sub(p.lastOut) < 100*time.Millisecond && p.current < p.total {
		return
	}
	p.lastOut = now

	if p.total > 0 {
		fmt.Fprintf(p.w, "\r%s %d/%d %s", p.message, p.current, p.total, label)
	} else {
		fmt.Fprintf(p.w, "\r%s %d %s", p.message, p.current, label)
	}
}

func (p *Indicator) Finish() {
	fmt.Fprintf(p.w, "\r%s done: %d item(s) in %s\n",
		p.message, p.current, formatDuration(time.Since(p.started)))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
}
