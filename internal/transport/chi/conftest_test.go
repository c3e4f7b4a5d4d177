package chi

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/shard"
	pointsuc "github.com/kailas-cloud/vecstore/internal/usecase/points"
)

// stubRepo is an in-memory Repository and IndexStore for handler tests.
type stubRepo struct {
	points  map[string]dompoint.Struct
	indexes map[string]*shard.FieldSchema
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		points:  make(map[string]dompoint.Struct),
		indexes: make(map[string]*shard.FieldSchema),
	}
}

func (r *stubRepo) key(collection string, id dompoint.ID) string {
	return collection + "/" + id.String()
}

func (r *stubRepo) Upsert(_ context.Context, collection string, pts []dompoint.Struct) error {
	for _, p := range pts {
		r.points[r.key(collection, p.ID)] = p
	}
	return nil
}

func (r *stubRepo) Get(_ context.Context, collection string, id dompoint.ID) (dompoint.Struct, error) {
	p, ok := r.points[r.key(collection, id)]
	if !ok {
		return dompoint.Struct{}, domain.ErrPointNotFound
	}
	return p, nil
}

func (r *stubRepo) Delete(_ context.Context, collection string, ids []dompoint.ID) error {
	for _, id := range ids {
		delete(r.points, r.key(collection, id))
	}
	return nil
}

func (r *stubRepo) DeleteByFilter(
	ctx context.Context, collection string, f filter.Expression,
) ([]dompoint.ID, error) {
	ids, err := r.SelectByFilter(ctx, collection, f)
	if err != nil {
		return nil, err
	}
	return ids, r.Delete(ctx, collection, ids)
}

func (r *stubRepo) SetPayload(
	_ context.Context, collection string, ids []dompoint.ID, pl payload.Payload,
) error {
	for _, id := range ids {
		p, ok := r.points[r.key(collection, id)]
		if !ok {
			continue
		}
		p.Payload = p.Payload.Merge(pl)
		r.points[r.key(collection, id)] = p
	}
	return nil
}

func (r *stubRepo) DeletePayloadKeys(
	_ context.Context, collection string, ids []dompoint.ID, keys []string,
) error {
	for _, id := range ids {
		p, ok := r.points[r.key(collection, id)]
		if !ok {
			continue
		}
		p.Payload = p.Payload.Without(keys...)
		r.points[r.key(collection, id)] = p
	}
	return nil
}

func (r *stubRepo) ClearPayload(_ context.Context, collection string, ids []dompoint.ID) error {
	for _, id := range ids {
		p, ok := r.points[r.key(collection, id)]
		if !ok {
			continue
		}
		p.Payload = nil
		r.points[r.key(collection, id)] = p
	}
	return nil
}

func (r *stubRepo) SelectByFilter(
	_ context.Context, collection string, f filter.Expression,
) ([]dompoint.ID, error) {
	var out []dompoint.ID
	for k, p := range r.points {
		if len(k) < len(collection) || k[:len(collection)] != collection {
			continue
		}
		if f.Matches(p.Payload) {
			out = append(out, p.ID)
		}
	}
	return out, nil
}

func (r *stubRepo) SaveFieldIndex(
	_ context.Context, collection, field string, schema *shard.FieldSchema,
) error {
	r.indexes[collection+"/"+field] = schema
	return nil
}

func (r *stubRepo) DeleteFieldIndex(_ context.Context, collection, field string) error {
	delete(r.indexes, collection+"/"+field)
	return nil
}

// stubIndex returns canned hits and records the last query.
type stubIndex struct {
	hits  []pointsuc.ScoredPoint
	last  query.NamedQuery[query.QueryVector]
	limit int
}

func (i *stubIndex) Search(
	_ context.Context, _ string, q query.NamedQuery[query.QueryVector], limit int,
) ([]pointsuc.ScoredPoint, error) {
	i.last = q
	i.limit = limit
	return i.hits, nil
}

// stubEmbedder returns a fixed embedding.
type stubEmbedder struct {
	embedding []float32
}

func (e *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return e.embedding, nil
}

func newTestServer(repo *stubRepo, index *stubIndex, embed *stubEmbedder) *Server {
	var idx pointsuc.Index
	if index != nil {
		idx = index
	}
	var emb pointsuc.Embedder
	if embed != nil {
		emb = embed
	}
	svc := pointsuc.New(repo, repo, idx, emb)
	return NewServer(svc, nil, QueryLimits{}, zap.NewNop())
}
