package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/smart_inventory/internal/events"
	"github.com/Skotchmaster/smart_inventory/pkg/logging"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
)

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

const publishTimeout = 5 * time.Second

// publish is best effort: the write already happened, a lost event is only logged.
func publish(ctx context.Context, p events.Publisher, topic, key string, e events.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, topic, key, e); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", topic, "type", e.Type(), "error", err)
	}
}
