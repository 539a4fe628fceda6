package diag

import "sync"

// Reporter receives findings as the pipeline raises them.
// Implementations must be safe for concurrent use.
type Reporter interface {
	// Report records a finding. Implementations must not fail; a reporter
	// that cannot deliver a finding drops it silently rather than disrupting
	// the run.
	Report(f Finding)
}

// NoopReporter discards all findings. Use when reporting is disabled.
// NoopReporter is usable as a zero value.
type NoopReporter struct{}

// Report discards the finding.
func (NoopReporter) Report(Finding) {}

// Compile-time interface satisfaction check.
var _ Reporter = NoopReporter{}

// Collector accumulates findings in memory so callers (including tests) can
// assert on what was dropped, not just on the surviving output.
// The zero value is ready to use.
type Collector struct {
	mu       sync.Mutex
	findings []Finding
}

// Report appends the finding.
func (c *Collector) Report(f Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findings = append(c.findings, f)
}

// Findings returns a copy of all collected findings in report order.
func (c *Collector) Findings() []Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Finding, len(c.findings))
	copy(out, c.findings)
	return out
}

// ByKind returns the collected findings of the given kind, in report order.
func (c *Collector) ByKind(kind Kind) []Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Finding
	for _, f := range c.findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Count returns the number of collected findings with the given severity.
func (c *Collector) Count(sev Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, f := range c.findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

// Compile-time interface satisfaction check.
var _ Reporter = (*Collector)(nil)

// MultiReporter sends findings to multiple reporters. Useful when you want
// both console output (via SlogReporter) and a report file (via FileReporter).
type MultiReporter struct {
	reporters []Reporter
}

// NewMultiReporter creates a MultiReporter that fans out to all provided reporters.
func NewMultiReporter(reporters ...Reporter) *MultiReporter {
	return &MultiReporter{reporters: reporters}
}

// Report sends the finding to all configured reporters.
func (m *MultiReporter) Report(f Finding) {
	for _, r := range m.reporters {
		r.Report(f)
	}
}

// Compile-time interface satisfaction check.
var _ Reporter = (*MultiReporter)(nil)
