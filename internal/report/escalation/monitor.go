// Package escalation promotes aged, unresolved reports. Escalation is an
// observable event; it never awards points and never notifies.
package escalation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"smartbin/internal/audit"
	"smartbin/internal/domain"
	"smartbin/internal/report/metrics"
	"smartbin/internal/report/store"
	"smartbin/pkg/clock"
	"smartbin/pkg/platform/sentinel"
)

// Monitor sweeps the store on a fixed interval and transitions stale
// Reported items to Escalated via the store's compare-and-set, so a sweep
// racing a resolution simply loses.
type Monitor struct {
	reports   store.Store
	recorder  *audit.Recorder
	clock     clock.Clock
	threshold time.Duration
	interval  time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func NewMonitor(reports store.Store, recorder *audit.Recorder, clk clock.Clock,
	threshold, interval time.Duration, logger *slog.Logger, m *metrics.Metrics) *Monitor {
	return &Monitor{
		reports:   reports,
		recorder:  recorder,
		clock:     clk,
		threshold: threshold,
		interval:  interval,
		logger:    logger,
		metrics:   m,
	}
}

// Run sweeps until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				m.logger.ErrorContext(ctx, "escalation sweep failed", "error", err)
			}
		}
	}
}

// Sweep promotes every Reported item older than the threshold. Returns how
// many were escalated.
func (m *Monitor) Sweep(ctx context.Context) (int, error) {
	if m.metrics != nil {
		m.metrics.EscalationSweeps.Inc()
	}

	status := domain.StatusReported
	reports, err := m.reports.List(ctx, store.Filter{Status: &status})
	if err != nil {
		return 0, err
	}

	now := m.clock.Now()
	var escalated int
	for _, report := range reports {
		if now.Sub(report.Timestamp) <= m.threshold {
			continue
		}
		_, err := m.reports.UpdateStatus(ctx, report.ID, domain.StatusReported, domain.StatusEscalated)
		if err != nil {
			// Lost the race to a resolution or another sweep; fine either way.
			if errors.Is(err, sentinel.ErrInvalidState) || errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return escalated, err
		}
		escalated++
		if m.metrics != nil {
			m.metrics.EscalationsTotal.Inc()
		}

		if err := m.recorder.Emit(ctx, audit.Entry{
			ActionType:  audit.ActionIncidentEscalated,
			PerformedBy: audit.Actor{ID: "SYSTEM", Role: "system"},
			Target: audit.Target{
				Type:       "INCIDENT",
				ID:         report.ID,
				StatusFrom: domain.StatusReported,
				StatusTo:   domain.StatusEscalated,
			},
			Metadata: map[string]any{
				"ageHours": now.Sub(report.Timestamp).Hours(),
			},
		}); err != nil {
			m.logger.WarnContext(ctx, "audit entry failed for escalation",
				"report_id", report.ID, "error", err)
		}

		m.logger.InfoContext(ctx, "report escalated",
			"report_id", report.ID,
			"age", now.Sub(report.Timestamp).String(),
		)
	}
	return escalated, nil
}
