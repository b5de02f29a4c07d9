package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// store is a typed view over one collection. Every call runs under its own
// opTimeout deadline because repository methods carry no context.
type store[T any] struct {
	coll *mongo.Collection
}

func newStore[T any](db *mongo.Database, name string) store[T] {
	return store[T]{coll: db.Collection(name)}
}

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}

func (s store[T]) insert(doc *T) error {
	ctx, cancel := opContext()
	defer cancel()
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// one returns nil, nil when nothing matches.
func (s store[T]) one(filter bson.M) (*T, error) {
	ctx, cancel := opContext()
	defer cancel()
	doc := new(T)
	err := s.coll.FindOne(ctx, filter).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s store[T]) byID(id string) (*T, error) {
	return s.one(bson.M{"_id": id})
}

func (s store[T]) all(filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	ctx, cancel := opContext()
	defer cancel()
	cursor, err := s.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []*T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// page returns one page of matches plus the total number of matches.
func (s store[T]) page(filter, sort bson.M, page, limit int) ([]*T, int, error) {
	ctx, cancel := opContext()
	defer cancel()
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.all(filter, pageOptions(sort, page, limit))
	if err != nil {
		return nil, 0, err
	}
	return items, int(total), nil
}

func (s store[T]) upsert(id string, doc any) error {
	ctx, cancel := opContext()
	defer cancel()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s store[T]) replace(id string, doc *T) error {
	ctx, cancel := opContext()
	defer cancel()
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	return matched(res, err)
}

// set applies a partial update to the document with the given id.
func (s store[T]) set(id string, fields bson.M) error {
	ctx, cancel := opContext()
	defer cancel()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return matched(res, err)
}

func matched(res *mongo.UpdateResult, err error) error {
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func pageOptions(sort bson.M, page, limit int) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	return options.Find().SetSort(sort).SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
}

func values[T any](ptrs []*T) []T {
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	return out
}
