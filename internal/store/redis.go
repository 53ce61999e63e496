package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisStore keeps each collection in a hash keyed by a generated storage id,
// mirroring a schemaless document store. A companion index hash maps the
// logical id field to the storage key so lookups never scan the collection.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Redis-backed DocumentStore.
func NewRedisStore(client *redis.Client) DocumentStore {
	return &redisStore{client: client}
}

func collectionKey(collection string) string {
	return "catalog:" + collection
}

func indexKey(collection string) string {
	return "catalog:" + collection + ":ids"
}

func (s *redisStore) List(ctx context.Context, collection string) ([]Document, error) {
	vals, err := s.client.HVals(ctx, collectionKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(vals))
	for _, raw := range vals {
		var doc Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *redisStore) FindByID(ctx context.Context, collection, id string) (Document, error) {
	storageID, err := s.client.HGet(ctx, indexKey(collection), id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s/%s: %w", collection, id, err)
	}

	raw, err := s.client.HGet(ctx, collectionKey(collection), storageID).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *redisStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", collection, err)
	}

	storageID := uuid.NewString()
	if logical := doc.LogicalID(); logical != "" {
		// HSetNX claims the logical id atomically; a lost race never
		// overwrites the index entry of an existing document.
		claimed, err := s.client.HSetNX(ctx, indexKey(collection), logical, storageID).Result()
		if err != nil {
			return "", fmt.Errorf("index %s/%s: %w", collection, logical, err)
		}
		if !claimed {
			return "", ErrDuplicateID
		}
	}
	if err := s.client.HSet(ctx, collectionKey(collection), storageID, raw).Err(); err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}
	return storageID, nil
}

func (s *redisStore) Update(ctx context.Context, collection, id string, patch Document) (bool, error) {
	storageID, err := s.client.HGet(ctx, indexKey(collection), id).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve %s/%s: %w", collection, id, err)
	}

	raw, err := s.client.HGet(ctx, collectionKey(collection), storageID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	for k, v := range patch {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, collectionKey(collection), storageID, merged)
	if logical := doc.LogicalID(); logical != "" && logical != id {
		taken, err := s.client.HExists(ctx, indexKey(collection), logical).Result()
		if err != nil {
			return false, fmt.Errorf("index %s/%s: %w", collection, logical, err)
		}
		if taken {
			return false, ErrDuplicateID
		}
		pipe.HDel(ctx, indexKey(collection), id)
		pipe.HSet(ctx, indexKey(collection), logical, storageID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return true, nil
}

func (s *redisStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	storageID, err := s.client.HGet(ctx, indexKey(collection), id).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("resolve %s/%s: %w", collection, id, err)
	}

	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, collectionKey(collection), storageID)
	pipe.HDel(ctx, indexKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return true, nil
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
