package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
)

// LogSink writes notices to the structured log, warnings at Warn level.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log.With().Str("component", "notice").Logger()}
}

func (s *LogSink) Notify(_ context.Context, n domain.Notice) error {
	ev := s.log.Info()
	if n.Severity == domain.SeverityWarning {
		ev = s.log.Warn()
	}
	ev.Str("kind", string(n.Kind)).
		Int64("actor_id", n.ActorID).
		Int64("subject_id", n.SubjectID).
		Time("occurred_at", n.OccurredAt).
		Msg(n.Message)
	return nil
}
