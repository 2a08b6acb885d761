package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisIndex stores search objects as JSON values under per-object keys plus a
// membership set per index, which is the shape the query side expects.
type RedisIndex struct {
	client redis.UniversalClient
}

func NewRedisIndex(client redis.UniversalClient) *RedisIndex {
	return &RedisIndex{client: client}
}

func objectKey(indexName, objectID string) string {
	return "search:" + indexName + ":obj:" + objectID
}

func memberKey(indexName string) string {
	return "search:" + indexName + ":ids"
}

// SaveObjects upserts each object independently. A failure on one object is
// collected and joined so the rest still land.
func (r *RedisIndex) SaveObjects(ctx context.Context, indexName string, objects []Object) error {
	var errs []error
	for _, obj := range objects {
		if err := r.saveObject(ctx, indexName, obj); err != nil {
			errs = append(errs, fmt.Errorf("save object %s: %w", obj.ObjectID, err))
		}
	}
	return errors.Join(errs...)
}

func (r *RedisIndex) saveObject(ctx context.Context, indexName string, obj Object) error {
	raw, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("encode object: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, objectKey(indexName, obj.ObjectID), raw, 0)
	pipe.SAdd(ctx, memberKey(indexName), obj.ObjectID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write object: %w", err)
	}
	return nil
}

func (r *RedisIndex) DeleteObject(ctx context.Context, indexName, objectID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, objectKey(indexName, objectID))
	pipe.SRem(ctx, memberKey(indexName), objectID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete object %s: %w", objectID, err)
	}
	return nil
}

// GetObject reads one object back. Used by integration tests and debugging
// tooling; the service itself never reads the index.
func (r *RedisIndex) GetObject(ctx context.Context, indexName, objectID string) (Object, error) {
	raw, err := r.client.Get(ctx, objectKey(indexName, objectID)).Bytes()
	if err != nil {
		return Object{}, fmt.Errorf("read object %s: %w", objectID, err)
	}
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Object{}, fmt.Errorf("decode object %s: %w", objectID, err)
	}
	return obj, nil
}
