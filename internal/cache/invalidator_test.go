package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/usertask-api/internal/events"
	"github.com/phrazzld/usertask-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidatorDeletesPrefixedEntries(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestLocalBackend(t)
	log, _ := logger.GetTestLogger(t)

	require.NoError(t, b.Set(ctx, "/api/usertask/1", []byte("a"), time.Minute))
	require.NoError(t, b.Set(ctx, "/api/usertasks_", []byte("b"), time.Minute))
	require.NoError(t, b.Set(ctx, "/other", []byte("c"), time.Minute))

	inv := NewInvalidator(b, log, "/api/usertask")

	event, err := events.NewTaskChangedEvent(uuid.New(), events.ActionDeleted)
	require.NoError(t, err)
	require.NoError(t, inv.HandleEvent(ctx, event))

	_, found, _ := b.Get(ctx, "/api/usertask/1")
	assert.False(t, found)
	_, found, _ = b.Get(ctx, "/api/usertasks_")
	assert.False(t, found)
	_, found, _ = b.Get(ctx, "/other")
	assert.True(t, found)
}

func TestInvalidatorIgnoresOtherEvents(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestLocalBackend(t)
	require.NoError(t, b.Set(ctx, "/api/usertask/1", []byte("a"), time.Minute))

	inv := NewInvalidator(b, nil, "/api/usertask")

	event, err := events.NewEvent("user.created", map[string]string{})
	require.NoError(t, err)
	require.NoError(t, inv.HandleEvent(ctx, event))
	require.NoError(t, inv.HandleEvent(ctx, nil))

	_, found, _ := b.Get(ctx, "/api/usertask/1")
	assert.True(t, found)
}

func TestInvalidatorSwallowsBackendErrors(t *testing.T) {
	log, buf := logger.GetTestLogger(t)
	inv := NewInvalidator(failingBackend{}, log, "/api/usertask")

	event, err := events.NewTaskChangedEvent(uuid.New(), events.ActionUpdated)
	require.NoError(t, err)

	assert.NoError(t, inv.HandleEvent(context.Background(), event))
	logger.AssertLogContains(t, buf, "failed to invalidate cache entries")
}

func TestInvalidatorWithEmitter(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestLocalBackend(t)
	log, _ := logger.GetTestLogger(t)
	require.NoError(t, b.Set(ctx, "/api/usertask/9", []byte("a"), time.Minute))

	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(NewInvalidator(b, log, "/api/usertask"))

	event, err := events.NewTaskChangedEvent(uuid.New(), events.ActionCreated)
	require.NoError(t, err)
	require.NoError(t, emitter.EmitEvent(ctx, event))

	_, found, _ := b.Get(ctx, "/api/usertask/9")
	assert.False(t, found)
}
