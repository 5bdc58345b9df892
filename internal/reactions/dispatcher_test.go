package reactions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"buzzline/internal/store"
)

func TestDefaultRegistryCoversAllTriggers(t *testing.T) {
	t.Parallel()
	reg := DefaultRegistry()

	for _, key := range []Key{
		{store.Likes, EventCreate},
		{store.Likes, EventDelete},
		{store.Comments, EventCreate},
		{store.Users, EventUpdate},
		{store.Posts, EventDelete},
	} {
		assert.Containsf(t, reg, key, "missing reaction for %v", key)
	}
	assert.Len(t, reg, 5)
}

func TestDispatcher(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("runs the registered reaction", func(t *testing.T) {
		t.Parallel()
		ran := false
		reg := Registry{
			{store.Likes, EventCreate}: func(context.Context, store.Store, Event) error {
				ran = true
				return nil
			},
		}
		d := NewDispatcher(reg, store.NewMemory(), zap.NewNop())
		d.Dispatch(ctx, Event{Collection: store.Likes, Kind: EventCreate, ID: "l1"})
		assert.True(t, ran)
	})

	t.Run("unregistered events are ignored", func(t *testing.T) {
		t.Parallel()
		d := NewDispatcher(Registry{}, store.NewMemory(), zap.NewNop())
		d.Dispatch(ctx, Event{Collection: store.Posts, Kind: EventCreate, ID: "p1"})
	})

	t.Run("reaction failures are swallowed", func(t *testing.T) {
		t.Parallel()
		reg := Registry{
			{store.Posts, EventDelete}: func(context.Context, store.Store, Event) error {
				return errors.New("store unavailable")
			},
		}
		d := NewDispatcher(reg, store.NewMemory(), zap.NewNop())
		d.Dispatch(ctx, Event{Collection: store.Posts, Kind: EventDelete, ID: "p1"})
	})
}
