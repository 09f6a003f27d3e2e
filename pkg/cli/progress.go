package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress of a multi-step operation.
type ProgressReporter interface {
	Start(total int)
	Update(completed int, label string)
	Finish()
	Error(err error)
}

// SimpleProgress redraws a single text line per update.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int
	current int
	label   string
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a new progress reporter that writes to w.
// If w is nil, it defaults to os.Stderr.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w}
}

// Start resets the reporter for total steps.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.label = ""
	p.started = time.Now()
	p.render()
}

// Update records that completed steps are done, the last one being label.
func (p *SimpleProgress) Update(completed int, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = completed
	p.label = label
	p.render()
}

// Finish marks the operation complete.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = p.total
	p.render()
	fmt.Fprintf(p.writer, " done in %s\n", time.Since(p.started).Round(time.Millisecond))
}

// Error reports a failure and ends the line.
func (p *SimpleProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\n✗ Error: %v\n", err)
}

func (p *SimpleProgress) render() {
	if p.total <= 0 {
		return
	}

	current := p.current
	if current > p.total {
		current = p.total
	}

	const barWidth = 28
	filled := barWidth * current / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(p.writer, "\rExporting: [%s] %d/%d %-14s", bar, current, p.total, p.label)
}
