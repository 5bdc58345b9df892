package reactions

import (
	"context"

	"go.uber.org/zap"

	"buzzline/internal/store"
)

// Dispatcher routes store events to registered reactions and owns their
// failure handling: a failed reaction is logged and dropped, never surfaced
// to the writer whose mutation produced the event.
type Dispatcher struct {
	registry Registry
	store    store.Store
	log      *zap.Logger
}

func NewDispatcher(registry Registry, st store.Store, log *zap.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, store: st, log: log}
}

// Dispatch runs the reaction registered for the event's collection and
// kind, if any.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	fn, ok := d.registry[Key{Collection: ev.Collection, Kind: ev.Kind}]
	if !ok {
		return
	}
	if err := fn(ctx, d.store, ev); err != nil {
		d.log.Error("reaction failed",
			zap.String("collection", ev.Collection),
			zap.String("kind", string(ev.Kind)),
			zap.String("id", ev.ID),
			zap.Error(err))
	}
}
