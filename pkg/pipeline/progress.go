package pipeline

import (
	"math"
)

// A ProgressFunc is told how far through the run we are, as a percentage.
// The values it sees never decrease.
type ProgressFunc func(percent int)

// progress delivers percentages to a ProgressFunc from its own goroutine,
// in order, so a slow listener never holds up the pipeline.
type progress struct {
	total int
	done  int

	ch       chan int
	finished chan struct{}
}

func newProgress(fn ProgressFunc, total int) *progress {
	p := &progress{total: total}
	if fn == nil {
		return p
	}

	// Sized so that emitting never blocks.
	p.ch = make(chan int, total+1)
	p.finished = make(chan struct{})
	go func() {
		defer close(p.finished)
		for pct := range p.ch {
			fn(pct)
		}
	}()
	return p
}

func (p *progress) percent() int {
	if p.total <= 0 {
		return 100
	}
	return int(math.Round(float64(p.done) / float64(p.total) * 100))
}

func (p *progress) emit() {
	if p.ch != nil {
		p.ch <- p.percent()
	}
}

// step marks one more step as done.
func (p *progress) step() {
	if p.done >= p.total {
		return
	}
	p.done++
	p.emit()
}

// close waits for the listener to see everything emitted so far.
func (p *progress) close() {
	if p.ch != nil {
		close(p.ch)
		<-p.finished
		p.ch = nil
	}
}
