// Package observ measures how long the pipeline phases take.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed step, e.g. parsing a single file.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer collects phases. It is not safe for concurrent use; the driver
// processes files one at a time.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8), now: time.Now} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Note = note
}

// Track is Begin returning the matching End, for use with defer.
func (t *Timer) Track(name string) func(note string) {
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// PhaseReport is the total of all phases sharing a name.
type PhaseReport struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report sums phases by name, in order of first appearance. The note of a
// group is the last non-empty one.
func (t *Timer) Report() Report {
	if t == nil || len(t.phases) == 0 {
		return Report{}
	}
	var (
		report Report
		byName = make(map[string]int)
		total  time.Duration
	)
	for _, phase := range t.phases {
		total += phase.Dur
		i, ok := byName[phase.Name]
		if !ok {
			i = len(report.Phases)
			byName[phase.Name] = i
			report.Phases = append(report.Phases, PhaseReport{Name: phase.Name})
		}
		pr := &report.Phases[i]
		pr.Count++
		pr.DurationMS += durationToMillis(phase.Dur)
		if phase.Note != "" {
			pr.Note = phase.Note
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary returns a human-readable table of the report.
func (t *Timer) Summary() string {
	report := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&b, "  %-12s %4dx %9.2f ms", p.Name, p.Count, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %5s %9.2f ms\n", "total", "", report.TotalMS)
	return b.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
