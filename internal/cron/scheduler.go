package cronjob

import (
	"fmt"

	"github.com/randomnamegen/namegen-backend/internal/names/upstream"
	"github.com/randomnamegen/namegen-backend/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

func NewScheduler(log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// Start registers the upstream metrics report on spec and starts the cron
// runner. An empty spec leaves the scheduler idle.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		s.log.Info("metrics report disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.reportUpstreamMetrics); err != nil {
		return fmt.Errorf("schedule metrics report %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info("cron scheduler started", "metrics_report", spec)
	return nil
}

// Stop halts the runner and waits for a running report to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) reportUpstreamMetrics() {
	snap := upstream.Snapshot()
	if len(snap) == 0 {
		s.log.Info("upstream metrics", "calls", 0)
		return
	}
	for _, m := range snap {
		s.log.Info("upstream metrics",
			"service", m.Service,
			"calls", m.Calls,
			"errors", m.Errors,
			"error_rate_pct", m.ErrorRate(),
			"avg_latency_ms", m.AverageLatency(),
		)
	}
}
