package video

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar implements the ProgressReporter interface
type ProgressBar struct {
	out         io.Writer
	total       int
	current     int
	startTime   time.Time
	lastUpdate  time.Time
	interval    time.Duration
	description string
}

func NewProgressBar(out io.Writer, description string) *ProgressBar {
	return &ProgressBar{
		out:         out,
		total:       100,
		startTime:   time.Now(),
		interval:    100 * time.Millisecond,
		description: description,
	}
}

func (p *ProgressBar) Report(progress float64) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	p.current = int(progress * float64(p.total))

	// Throttle redraws; the first report always draws
	if !p.lastUpdate.IsZero() && time.Since(p.lastUpdate) < p.interval {
		return
	}
	p.lastUpdate = time.Now()
	p.draw()
}

func (p *ProgressBar) draw() {
	percentage := float64(p.current) / float64(p.total) * 100
	elapsed := time.Since(p.startTime)

	barWidth := 30
	completed := barWidth * p.current / p.total
	bar := strings.Repeat("=", completed) + strings.Repeat("-", barWidth-completed)

	fmt.Fprintf(p.out, "\r%s [%s] %.1f%% Elapsed: %v",
		p.description,
		bar,
		percentage,
		elapsed.Round(time.Second),
	)
}

func (p *ProgressBar) ReportError(err error) {
	fmt.Fprintf(p.out, "\nError: %v\n", err)
}

func (p *ProgressBar) ReportComplete() {
	p.current = p.total
	p.draw()
	fmt.Fprintln(p.out)
}
