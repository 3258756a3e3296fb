package recording

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ProgressReporter receives capture progress in the range [0, 1].
type ProgressReporter interface {
	Report(progress float64)
	ReportError(err error)
	ReportComplete()
}

// ProgressBar implements the ProgressReporter interface
type ProgressBar struct {
	out         io.Writer
	total       int
	current     int
	startTime   time.Time
	lastUpdate  time.Time
	description string
}

func NewProgressBar(description string) *ProgressBar {
	return &ProgressBar{
		out:         os.Stdout,
		total:       100,
		startTime:   time.Now(),
		description: description,
	}
}

func (p *ProgressBar) Report(progress float64) {
	progress = min(max(progress, 0), 1)
	p.current = int(progress * float64(p.total))

	// Avoid redrawing more than ten times a second
	if time.Since(p.lastUpdate) < 100*time.Millisecond {
		return
	}
	p.lastUpdate = time.Now()
	p.draw()
}

func (p *ProgressBar) ReportError(err error) {
	fmt.Fprintf(p.out, "\nError: %v\n", err)
}

func (p *ProgressBar) ReportComplete() {
	p.current = p.total
	p.draw()
	fmt.Fprintln(p.out)
}

func (p *ProgressBar) draw() {
	const barWidth = 30
	completed := barWidth * p.current / p.total
	bar := strings.Repeat("=", completed) + strings.Repeat("-", barWidth-completed)

	fmt.Fprintf(p.out, "\r%s [%s] %.1f%% Elapsed: %v",
		p.description,
		bar,
		float64(p.current)/float64(p.total)*100,
		time.Since(p.startTime).Round(time.Second),
	)
}
