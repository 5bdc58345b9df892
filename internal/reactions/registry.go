package reactions

import (
	"context"

	"buzzline/internal/store"
)

// EventKind classifies a document mutation.
type EventKind string

const (
	EventCreate EventKind = "create"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Event is a single observed document mutation. Doc holds the document
// body at the time of the event (the after image for updates); Before is
// only set for updates, and only when the store delivered a before image.
type Event struct {
	Collection string
	Kind       EventKind
	ID         string
	Doc        store.Document
	Before     store.Document
}

// Func is a single reaction. Delivery is at least once and unordered
// across documents, so reactions re-derive truth from current store state
// and stay idempotent under duplicate delivery.
type Func func(ctx context.Context, st store.Store, ev Event) error

// Key identifies which mutations a reaction fires on.
type Key struct {
	Collection string
	Kind       EventKind
}

// Registry maps (collection, event kind) to the reaction handling it. It is
// built once at process start and handed to the dispatcher.
type Registry map[Key]Func

// DefaultRegistry wires the reactions that keep derived state (notifications,
// denormalized images, cascaded children) consistent with primary writes.
func DefaultRegistry() Registry {
	return Registry{
		{store.Likes, EventCreate}:    NotifyOnLike,
		{store.Likes, EventDelete}:    RemoveLikeNotification,
		{store.Comments, EventCreate}: NotifyOnComment,
		{store.Users, EventUpdate}:    PropagateUserImage,
		{store.Posts, EventDelete}:    CascadePostDelete,
	}
}
