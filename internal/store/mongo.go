package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a MongoDB database. Documents are keyed by
// a string _id (generated ObjectID hex for Add, caller-chosen for Set).
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Snapshot, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return Snapshot{ID: id}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	delete(raw, "_id")
	return Snapshot{ID: id, Exists: true, Data: Document(raw)}, nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, filters []Filter, orderBy string) ([]Snapshot, error) {
	query := bson.M{}
	for _, f := range filters {
		query[f.Field] = f.Value
	}

	opts := options.Find()
	if orderBy != "" {
		opts.SetSort(bson.D{{Key: orderBy, Value: -1}})
	}

	cursor, err := s.db.Collection(collection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var snaps []Snapshot
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		id, _ := raw["_id"].(string)
		delete(raw, "_id")
		snaps = append(snaps, Snapshot{ID: id, Exists: true, Data: Document(raw)})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return snaps, nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, doc Document) (string, error) {
	id := primitive.NewObjectID().Hex()
	if err := s.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc Document) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": id}, bson.M(doc), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Document) error {
	_, err := s.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) Batch() Batch {
	return &mongoBatch{store: s}
}

type batchOp struct {
	collection string
	id         string
	fields     Document // nil marks a delete
}

type mongoBatch struct {
	store *MongoStore
	ops   []batchOp
}

func (b *mongoBatch) Update(collection, id string, fields Document) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, fields: fields})
}

func (b *mongoBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

func (b *mongoBatch) Len() int { return len(b.ops) }

// Commit applies all queued operations inside one transaction.
func (b *mongoBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	session, err := b.store.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("batch commit: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		for _, op := range b.ops {
			coll := b.store.db.Collection(op.collection)
			var err error
			if op.fields == nil {
				_, err = coll.DeleteOne(sc, bson.M{"_id": op.id})
			} else {
				_, err = coll.UpdateOne(sc, bson.M{"_id": op.id}, bson.M{"$set": bson.M(op.fields)})
			}
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("batch commit: %w", err)
	}
	return nil
}
