package point

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/vecstore/internal/shard"
)

// SaveFieldIndex stores a payload field index definition. A nil schema
// records the field with its type left for the index layer to infer.
func (r *Repo) SaveFieldIndex(
	ctx context.Context, collectionName, fieldName string, schema *shard.FieldSchema,
) error {
	fields := map[string]string{"field": fieldName}
	if schema != nil {
		data, err := json.Marshal(schema)
		if err != nil {
			return fmt.Errorf("marshal field schema %q: %w", fieldName, err)
		}
		fields["schema"] = string(data)
	}
	key := r.indexKey(collectionName, fieldName)
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// DeleteFieldIndex drops a payload field index definition.
func (r *Repo) DeleteFieldIndex(ctx context.Context, collectionName, fieldName string) error {
	key := r.indexKey(collectionName, fieldName)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// GetFieldIndex returns a stored field index definition, or nil schema
// when the field was indexed without one.
func (r *Repo) GetFieldIndex(
	ctx context.Context, collectionName, fieldName string,
) (*shard.FieldSchema, bool, error) {
	key := r.indexKey(collectionName, fieldName)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return nil, false, nil
	}
	raw, ok := m["schema"]
	if !ok {
		return nil, true, nil
	}
	var schema shard.FieldSchema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		return nil, false, fmt.Errorf("unmarshal field schema %q: %w", fieldName, err)
	}
	return &schema, true, nil
}

func (r *Repo) indexKey(collectionName, fieldName string) string {
	return fmt.Sprintf("%s:%s:field-index:%s", r.keyPrefix, collectionName, fieldName)
}
