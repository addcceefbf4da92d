package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64

	calcRuns       uint64
	calcEmployees  uint64
	calcFailures   uint64
	calcDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordCalcRun tracks one payout calculation run: how many employees were
// processed, how many of them failed, and how long the run took.
func (c *Collector) RecordCalcRun(employees, failures int, duration time.Duration) {
	atomic.AddUint64(&c.calcRuns, 1)
	atomic.AddUint64(&c.calcEmployees, uint64(employees))
	atomic.AddUint64(&c.calcFailures, uint64(failures))
	atomic.AddUint64(&c.calcDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":      total,
		"errorsTotal":        errs,
		"avgDurationMs":      avg,
		"calcRunsTotal":      atomic.LoadUint64(&c.calcRuns),
		"calcEmployeesTotal": atomic.LoadUint64(&c.calcEmployees),
		"calcFailuresTotal":  atomic.LoadUint64(&c.calcFailures),
		"calcDurationMs":     atomic.LoadUint64(&c.calcDurationMs),
	}
}
