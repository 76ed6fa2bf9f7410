package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// notify hands a committed change to the sink. The originating operation has
// already succeeded, so a failing sink is only logged.
func notify(ctx context.Context, sink ports.EventSink, log zerolog.Logger, n domain.Notice) {
	if sink == nil {
		return
	}
	if err := sink.Notify(ctx, n); err != nil {
		log.Warn().Err(err).Str("kind", string(n.Kind)).Int64("subject_id", n.SubjectID).Msg("failed to deliver notice")
	}
}

// field re-labels a validation error with the input field it came from.
func field(name string, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return &domain.ValidationError{Field: name, Reason: ve.Reason}
	}
	return err
}

func required(name string) error {
	return &domain.ValidationError{Field: name, Reason: "must not be empty"}
}

// lookupErr reports a failed read of entity id. Missing rows keep
// domain.ErrNotFound; anything else is a persistence failure.
func lookupErr(entity string, id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}
	return fmt.Errorf("load %s %d: %w: %w", entity, id, domain.ErrPersistence, err)
}

// writeErr reports a failed write. Store-detected conflicts and vanished rows
// keep their kind.
func writeErr(op string, err error) error {
	if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}

// nonNil makes empty listings serialise as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
