package points

import (
	"context"

	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/shard"
)

// mockRepo implements Repository and IndexStore for tests.
type mockRepo struct {
	upsertFn         func(ctx context.Context, collection string, points []dompoint.Struct) error
	getFn            func(ctx context.Context, collection string, id dompoint.ID) (dompoint.Struct, error)
	deleteFn         func(ctx context.Context, collection string, ids []dompoint.ID) error
	deleteByFilterFn func(ctx context.Context, collection string, f filter.Expression) ([]dompoint.ID, error)
	setPayloadFn     func(ctx context.Context, collection string, ids []dompoint.ID, pl payload.Payload) error
	delPayloadFn     func(ctx context.Context, collection string, ids []dompoint.ID, keys []string) error
	clearPayloadFn   func(ctx context.Context, collection string, ids []dompoint.ID) error
	selectFn         func(ctx context.Context, collection string, f filter.Expression) ([]dompoint.ID, error)
	saveIndexFn      func(ctx context.Context, collection, field string, schema *shard.FieldSchema) error
	deleteIndexFn    func(ctx context.Context, collection, field string) error
}

func (m *mockRepo) Upsert(ctx context.Context, c string, p []dompoint.Struct) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, c, p)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, c string, id dompoint.ID) (dompoint.Struct, error) {
	if m.getFn != nil {
		return m.getFn(ctx, c, id)
	}
	return dompoint.Struct{}, nil
}

func (m *mockRepo) Delete(ctx context.Context, c string, ids []dompoint.ID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, c, ids)
	}
	return nil
}

func (m *mockRepo) DeleteByFilter(ctx context.Context, c string, f filter.Expression) ([]dompoint.ID, error) {
	if m.deleteByFilterFn != nil {
		return m.deleteByFilterFn(ctx, c, f)
	}
	return nil, nil
}

func (m *mockRepo) SetPayload(ctx context.Context, c string, ids []dompoint.ID, pl payload.Payload) error {
	if m.setPayloadFn != nil {
		return m.setPayloadFn(ctx, c, ids, pl)
	}
	return nil
}

func (m *mockRepo) DeletePayloadKeys(ctx context.Context, c string, ids []dompoint.ID, keys []string) error {
	if m.delPayloadFn != nil {
		return m.delPayloadFn(ctx, c, ids, keys)
	}
	return nil
}

func (m *mockRepo) ClearPayload(ctx context.Context, c string, ids []dompoint.ID) error {
	if m.clearPayloadFn != nil {
		return m.clearPayloadFn(ctx, c, ids)
	}
	return nil
}

func (m *mockRepo) SelectByFilter(ctx context.Context, c string, f filter.Expression) ([]dompoint.ID, error) {
	if m.selectFn != nil {
		return m.selectFn(ctx, c, f)
	}
	return nil, nil
}

func (m *mockRepo) SaveFieldIndex(ctx context.Context, c, field string, schema *shard.FieldSchema) error {
	if m.saveIndexFn != nil {
		return m.saveIndexFn(ctx, c, field, schema)
	}
	return nil
}

func (m *mockRepo) DeleteFieldIndex(ctx context.Context, c, field string) error {
	if m.deleteIndexFn != nil {
		return m.deleteIndexFn(ctx, c, field)
	}
	return nil
}

// mockIndex implements Index for tests.
type mockIndex struct {
	searchFn func(
		ctx context.Context, collection string, q query.NamedQuery[query.QueryVector], limit int,
	) ([]ScoredPoint, error)
}

func (m *mockIndex) Search(
	ctx context.Context, c string, q query.NamedQuery[query.QueryVector], limit int,
) ([]ScoredPoint, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, c, q, limit)
	}
	return nil, nil
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return []float32{0}, nil
}
