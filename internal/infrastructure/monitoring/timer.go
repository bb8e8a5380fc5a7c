package monitoring

import "time"

// Timer measures one scrape stage
type Timer struct {
	start   time.Time
	metrics *Metrics
	stage   string
}

// NewTimer starts timing stage. A nil metrics collector yields a timer that
// records nothing.
func NewTimer(metrics *Metrics, stage string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		stage:   stage,
	}
}

// Stop records the elapsed time under the stage and outcome and returns it
func (t *Timer) Stop(err error) time.Duration {
	duration := time.Since(t.start)
	if t.metrics == nil {
		return duration
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	t.metrics.StageDuration.WithLabelValues(t.stage, status).Observe(duration.Seconds())
	return duration
}
