package domain

import (
	"sync"

	m "sieve.dev/pkg/sieve/internal/model"
)

// DefaultProgressStep is the percentage granularity of progress reports.
const DefaultProgressStep = 10

// ProgressFunc receives progress snapshots.
type ProgressFunc func(m.Progress)

// progressTracker counts completed items and reports each time the integer
// percentage reaches the next step boundary. Percentages never go backwards,
// whatever order concurrent workers finish in.
type progressTracker struct {
	mu     sync.Mutex
	stage  m.Stage
	total  int
	done   int
	found  int
	step   int
	next   int
	report ProgressFunc
}

func newProgressTracker(stage m.Stage, total, step int, report ProgressFunc) *progressTracker {
	if step <= 0 || step > 100 {
		step = DefaultProgressStep
	}

	if report == nil {
		report = func(m.Progress) {}
	}

	return &progressTracker{
		stage:  stage,
		total:  total,
		step:   step,
		next:   step,
		report: report,
	}
}

// Advance records one completed item.
func (p *progressTracker) Advance() {
	p.Record(false)
}

// Record records one completed item; hit counts it as found.
func (p *progressTracker) Record(hit bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done >= p.total {
		return
	}

	p.done++

	if hit {
		p.found++
	}

	percent := p.done * 100 / p.total
	if percent < p.next && percent < 100 {
		return
	}

	p.next = (percent/p.step + 1) * p.step
	p.report(m.Progress{Stage: p.stage, Done: p.done, Total: p.total, Percent: percent, Found: p.found})
}
