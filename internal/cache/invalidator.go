package cache

import (
	"context"
	"log/slog"

	"github.com/phrazzld/usertask-api/internal/events"
	"github.com/phrazzld/usertask-api/internal/redact"
)

// Invalidator drops cached responses when tasks change. It subscribes to
// TypeTaskChanged events and deletes every entry under its key prefixes.
type Invalidator struct {
	backend  Backend
	prefixes []string
	logger   *slog.Logger
}

var _ events.EventHandler = (*Invalidator)(nil)

// NewInvalidator creates an Invalidator for the given key prefixes.
func NewInvalidator(backend Backend, log *slog.Logger, prefixes ...string) *Invalidator {
	if log == nil {
		log = slog.Default()
	}
	return &Invalidator{
		backend:  backend,
		prefixes: prefixes,
		logger:   log.With("component", "cache_invalidator"),
	}
}

// HandleEvent implements events.EventHandler. Failures are logged and never
// returned, so a write is not reported as failed because of the cache.
func (i *Invalidator) HandleEvent(ctx context.Context, event *events.Event) error {
	if event == nil || event.Type != events.TypeTaskChanged {
		return nil
	}

	for _, prefix := range i.prefixes {
		removed, err := i.backend.DeletePrefix(ctx, prefix)
		if err != nil {
			i.logger.Error("failed to invalidate cache entries",
				"prefix", prefix,
				"event_id", event.ID,
				"error", redact.Error(err))
			continue
		}
		i.logger.Debug("invalidated cache entries",
			"prefix", prefix,
			"event_id", event.ID,
			"removed", removed)
	}

	return nil
}
