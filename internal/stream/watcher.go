package stream

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"buzzline/internal/reactions"
	"buzzline/internal/store"
)

const reopenBackoff = 2 * time.Second

// watched lists the collections the reaction engine cares about and the
// change-stream operation types each one is observed for.
var watched = map[string][]string{
	store.Likes:    {"insert", "delete"},
	store.Comments: {"insert"},
	store.Users:    {"update"},
	store.Posts:    {"delete"},
}

var kindFor = map[string]reactions.EventKind{
	"insert":  reactions.EventCreate,
	"update":  reactions.EventUpdate,
	"replace": reactions.EventUpdate,
	"delete":  reactions.EventDelete,
}

// Watcher tails mongo change streams and feeds the reaction dispatcher.
// Delivery is decoupled from the originating write: the HTTP response never
// waits on a reaction.
type Watcher struct {
	db         *mongo.Database
	dispatcher *reactions.Dispatcher
	log        *zap.Logger
}

func NewWatcher(db *mongo.Database, dispatcher *reactions.Dispatcher, log *zap.Logger) *Watcher {
	return &Watcher{db: db, dispatcher: dispatcher, log: log}
}

// Run watches every registered collection until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) {
	for collection, opTypes := range watched {
		go w.watchCollection(ctx, collection, opTypes)
	}
	<-ctx.Done()
}

func (w *Watcher) watchCollection(ctx context.Context, collection string, opTypes []string) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"operationType": bson.M{"$in": opTypes}}}},
	}
	opts := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)

	for ctx.Err() == nil {
		cs, err := w.db.Collection(collection).Watch(ctx, pipeline, opts)
		if err != nil {
			w.log.Error("opening change stream failed",
				zap.String("collection", collection), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(reopenBackoff):
			}
			continue
		}
		w.consume(ctx, collection, cs)
	}
}

func (w *Watcher) consume(ctx context.Context, collection string, cs *mongo.ChangeStream) {
	defer cs.Close(ctx)
	for cs.Next(ctx) {
		var change changeEvent
		if err := cs.Decode(&change); err != nil {
			w.log.Error("decoding change event failed",
				zap.String("collection", collection), zap.Error(err))
			continue
		}

		kind, ok := kindFor[change.OperationType]
		if !ok {
			continue
		}
		ev := reactions.Event{
			Collection: collection,
			Kind:       kind,
			ID:         change.DocumentKey.ID,
			Doc:        toDocument(change.FullDocument),
			Before:     toDocument(change.FullDocumentBeforeChange),
		}
		// Deletes carry no full document; the before image stands in when
		// the collection has pre-images enabled.
		if ev.Doc == nil && kind == reactions.EventDelete {
			ev.Doc = ev.Before
		}

		// Each reaction runs as its own task; ordering across documents is
		// not guaranteed and not needed.
		go w.dispatcher.Dispatch(ctx, ev)
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		w.log.Error("change stream closed",
			zap.String("collection", collection), zap.Error(err))
	}
}

type changeEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument             bson.M `bson:"fullDocument"`
	FullDocumentBeforeChange bson.M `bson:"fullDocumentBeforeChange"`
}

func toDocument(raw bson.M) store.Document {
	if raw == nil {
		return nil
	}
	delete(raw, "_id")
	return store.Document(raw)
}
