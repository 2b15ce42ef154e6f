package notify

import (
	"context"
	"log/slog"
	"sync"
)

// LogSink records intents to the structured log. Used when Redis is not
// configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, "notification intent",
		"user_id", n.UserID,
		"incident_id", n.IncidentID,
		"points_awarded", n.PointsAwarded,
		"incident_type", n.IncidentType,
	)
	return nil
}

// CaptureSink collects intents for assertions in tests.
type CaptureSink struct {
	mu   sync.Mutex
	sent []Notification
}

func NewCaptureSink() *CaptureSink {
	return &CaptureSink{}
}

func (s *CaptureSink) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

// Sent returns a copy of everything captured so far.
func (s *CaptureSink) Sent() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.sent))
	copy(out, s.sent)
	return out
}
