// Package point persists points (named vectors + payload) into the
// hash-shaped storage engine.
package point

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/vecstore/internal/db"
	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
)

// store is the consumer interface for point persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HReplaceMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/points.Repository.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a point repository.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = "vecstore"
	}
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Upsert stores all points of a batch in a single pipelined round-trip.
// Existing points are replaced, not merged. All points are encoded
// before storage is touched, so an encoding error leaves stored points
// intact.
func (r *Repo) Upsert(ctx context.Context, collectionName string, points []dompoint.Struct) error {
	items := make([]db.HashSetItem, 0, len(points))
	for i := range points {
		fields, err := buildHashFields(&points[i])
		if err != nil {
			return err
		}
		key := r.pointKey(collectionName, points[i].ID)
		items = append(items, db.HashSetItem{Key: key, Fields: fields})
	}
	if err := r.store.HReplaceMulti(ctx, items); err != nil {
		return fmt.Errorf("replace points: %w", err)
	}
	return nil
}

// Get returns a point by ID.
func (r *Repo) Get(ctx context.Context, collectionName string, id dompoint.ID) (dompoint.Struct, error) {
	key := r.pointKey(collectionName, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return dompoint.Struct{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return dompoint.Struct{}, domain.ErrPointNotFound
	}
	return parseHashFields(id, m)
}

// Delete removes points by explicit id list.
func (r *Repo) Delete(ctx context.Context, collectionName string, ids []dompoint.ID) error {
	for _, id := range ids {
		key := r.pointKey(collectionName, id)
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("del %s: %w", key, err)
		}
	}
	return nil
}

// DeleteByFilter removes every point whose payload matches the filter.
// Returns the ids of the removed points.
func (r *Repo) DeleteByFilter(
	ctx context.Context, collectionName string, f filter.Expression,
) ([]dompoint.ID, error) {
	ids, err := r.selectByFilter(ctx, collectionName, f)
	if err != nil {
		return nil, err
	}
	if err := r.Delete(ctx, collectionName, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SetPayload merges a payload into each selected point.
func (r *Repo) SetPayload(
	ctx context.Context, collectionName string, ids []dompoint.ID, pl payload.Payload,
) error {
	for _, id := range ids {
		key := r.pointKey(collectionName, id)
		current, err := r.readPayload(ctx, key)
		if err != nil {
			return err
		}
		merged := current.Merge(pl)
		data, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("marshal payload for %s: %w", key, err)
		}
		if err := r.store.HSet(ctx, key, map[string]string{payloadField: string(data)}); err != nil {
			return fmt.Errorf("hset %s: %w", key, err)
		}
	}
	return nil
}

// DeletePayloadKeys removes payload keys from each selected point.
func (r *Repo) DeletePayloadKeys(
	ctx context.Context, collectionName string, ids []dompoint.ID, keys []string,
) error {
	for _, id := range ids {
		key := r.pointKey(collectionName, id)
		current, err := r.readPayload(ctx, key)
		if err != nil {
			return err
		}
		remaining := current.Without(keys...)
		if remaining.IsEmpty() {
			if err := r.store.HDel(ctx, key, payloadField); err != nil {
				return fmt.Errorf("hdel %s: %w", key, err)
			}
			continue
		}
		data, err := json.Marshal(remaining)
		if err != nil {
			return fmt.Errorf("marshal payload for %s: %w", key, err)
		}
		if err := r.store.HSet(ctx, key, map[string]string{payloadField: string(data)}); err != nil {
			return fmt.Errorf("hset %s: %w", key, err)
		}
	}
	return nil
}

// ClearPayload removes all payload from each selected point.
func (r *Repo) ClearPayload(ctx context.Context, collectionName string, ids []dompoint.ID) error {
	for _, id := range ids {
		key := r.pointKey(collectionName, id)
		if err := r.store.HDel(ctx, key, payloadField); err != nil {
			return fmt.Errorf("hdel %s: %w", key, err)
		}
	}
	return nil
}

// SelectByFilter returns the ids of points whose payload matches the
// filter expression.
func (r *Repo) SelectByFilter(
	ctx context.Context, collectionName string, f filter.Expression,
) ([]dompoint.ID, error) {
	return r.selectByFilter(ctx, collectionName, f)
}

func (r *Repo) selectByFilter(
	ctx context.Context, collectionName string, f filter.Expression,
) ([]dompoint.ID, error) {
	pattern := fmt.Sprintf("%s:%s:point:*", r.keyPrefix, collectionName)

	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pattern, err)
	}

	var ids []dompoint.ID
	for _, key := range keys {
		id, err := r.idFromKey(collectionName, key)
		if err != nil {
			continue
		}
		pl, err := r.readPayload(ctx, key)
		if err != nil {
			return nil, err
		}
		if f.Matches(pl) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *Repo) readPayload(ctx context.Context, key string) (payload.Payload, error) {
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	raw, ok := m[payloadField]
	if !ok {
		return payload.Payload{}, nil
	}
	var pl payload.Payload
	if err := json.Unmarshal([]byte(raw), &pl); err != nil {
		return nil, fmt.Errorf("unmarshal payload of %s: %w", key, err)
	}
	return pl, nil
}

func (r *Repo) pointKey(collectionName string, id dompoint.ID) string {
	return fmt.Sprintf("%s:%s:point:%s", r.keyPrefix, collectionName, id)
}

func (r *Repo) idFromKey(collectionName, key string) (dompoint.ID, error) {
	prefix := fmt.Sprintf("%s:%s:point:", r.keyPrefix, collectionName)
	return dompoint.ParseID(strings.TrimPrefix(key, prefix))
}
