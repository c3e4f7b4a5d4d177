package points

import (
	"context"

	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/shard"
)

// Repository defines the storage contract for points.
type Repository interface {
	Upsert(ctx context.Context, collectionName string, points []dompoint.Struct) error
	Get(ctx context.Context, collectionName string, id dompoint.ID) (dompoint.Struct, error)
	Delete(ctx context.Context, collectionName string, ids []dompoint.ID) error
	DeleteByFilter(ctx context.Context, collectionName string, f filter.Expression) ([]dompoint.ID, error)
	SetPayload(ctx context.Context, collectionName string, ids []dompoint.ID, pl payload.Payload) error
	DeletePayloadKeys(ctx context.Context, collectionName string, ids []dompoint.ID, keys []string) error
	ClearPayload(ctx context.Context, collectionName string, ids []dompoint.ID) error
	SelectByFilter(ctx context.Context, collectionName string, f filter.Expression) ([]dompoint.ID, error)
}

// IndexStore persists payload field index definitions.
type IndexStore interface {
	SaveFieldIndex(ctx context.Context, collectionName, fieldName string, schema *shard.FieldSchema) error
	DeleteFieldIndex(ctx context.Context, collectionName, fieldName string) error
}

// ScoredPoint is one search hit returned by the index layer.
type ScoredPoint struct {
	ID    dompoint.ID
	Score float32
}

// Index is the similarity index collaborator consuming query vectors.
type Index interface {
	Search(
		ctx context.Context,
		collectionName string,
		q query.NamedQuery[query.QueryVector],
		limit int,
	) ([]ScoredPoint, error)
}

// Embedder vectorizes text into a dense embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
