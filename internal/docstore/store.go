// Package docstore keeps flat JSON documents in Redis, one collection per
// entity type, addressed by numeric ids with per-owner index sets.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/luxbiz/biz-optimizer/internal/platform/apperr"
)

const keyPrefix = "lux:"

var ErrNotFound = fmt.Errorf("document %w", apperr.ErrNotFound)

// Index names a secondary lookup set, e.g. {Name: "user", Value: "42"}.
type Index struct {
	Name  string
	Value string
}

// By builds an index on a numeric owner id.
func By(name string, id int64) Index {
	return Index{Name: name, Value: strconv.FormatInt(id, 10)}
}

type Store struct {
	client *redis.Client
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Client exposes the underlying client for collaborators such as locks.
func (s *Store) Client() *redis.Client {
	return s.client
}

// NextID allocates the next id of a collection.
func (s *Store) NextID(ctx context.Context, collection string) (int64, error) {
	id, err := s.client.Incr(ctx, seqKey(collection)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", collection, err)
	}
	return id, nil
}

// Put writes the document and adds it to every index in one pipeline.
func (s *Store) Put(ctx context.Context, collection string, id int64, doc any, indexes ...Index) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s document: %w", collection, err)
	}

	member := strconv.FormatInt(id, 10)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, docKey(collection, id), data, 0)
	for _, idx := range indexes {
		pipe.SAdd(ctx, indexKey(collection, idx), member)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to put %s %d: %w", collection, id, err)
	}
	return nil
}

// Get loads one document into out.
func (s *Store) Get(ctx context.Context, collection string, id int64, out any) error {
	data, err := s.client.Get(ctx, docKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get %s %d: %w", collection, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s %d: %w", collection, id, err)
	}
	return nil
}

// Delete removes the document and its index memberships.
func (s *Store) Delete(ctx context.Context, collection string, id int64, indexes ...Index) error {
	member := strconv.FormatInt(id, 10)
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, docKey(collection, id))
	for _, idx := range indexes {
		pipe.SRem(ctx, indexKey(collection, idx), member)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", collection, id, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

// Members returns the ids in an index, ascending.
func (s *Store) Members(ctx context.Context, collection string, idx Index) ([]int64, error) {
	raw, err := s.client.SMembers(ctx, indexKey(collection, idx)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s by %s: %w", collection, idx.Name, err)
	}

	ids := make([]int64, 0, len(raw))
	for _, m := range raw {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Count returns how many ids were ever allocated for a collection.
func (s *Store) Count(ctx context.Context, collection string) (int64, error) {
	n, err := s.client.Get(ctx, seqKey(collection)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// GetMany loads documents by id in order. Ids whose document vanished are skipped.
func GetMany[T any](ctx context.Context, s *Store, collection string, ids []int64) ([]T, error) {
	out := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(collection, id)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s documents: %w", collection, err)
	}

	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(str), &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s %d: %w", collection, ids[i], err)
		}
		out = append(out, doc)
	}
	return out, nil
}

// ListBy loads every document of an index, ascending by id.
func ListBy[T any](ctx context.Context, s *Store, collection string, idx Index) ([]T, error) {
	ids, err := s.Members(ctx, collection, idx)
	if err != nil {
		return nil, err
	}
	return GetMany[T](ctx, s, collection, ids)
}

func seqKey(collection string) string {
	return fmt.Sprintf("%s%s:seq", keyPrefix, collection)
}

func docKey(collection string, id int64) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, collection, id)
}

func indexKey(collection string, idx Index) string {
	return fmt.Sprintf("%s%s:by:%s:%s", keyPrefix, collection, idx.Name, idx.Value)
}
