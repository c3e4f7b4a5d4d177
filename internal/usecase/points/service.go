// Package points orchestrates point operations: wire shapes are
// normalized into the domain model, converted into internal shard
// messages, and applied to the local shard's storage.
package points

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/domain/vector"
	"github.com/kailas-cloud/vecstore/internal/shard"
)

// WriteOptions carry the replication parameters of a mutating operation.
type WriteOptions struct {
	ShardID  *shard.ID
	Wait     bool
	Ordering *shard.WriteOrdering
}

// Selection chooses target points: an explicit id list or a filter.
// When both are supplied the id list takes precedence.
type Selection struct {
	IDs    []dompoint.ID
	Filter *filter.Expression
}

func (s Selection) validate() error {
	if len(s.IDs) == 0 && s.Filter == nil {
		return fmt.Errorf("point selection requires ids or a filter: %w", domain.ErrMalformedRequest)
	}
	return nil
}

// Service handles point operations against the local shard.
type Service struct {
	repo    Repository
	indexes IndexStore
	index   Index
	embed   Embedder
}

// New creates a points service. index and embed are optional
// collaborators; operations needing an absent one fail.
func New(repo Repository, indexes IndexStore, index Index, embed Embedder) *Service {
	return &Service{repo: repo, indexes: indexes, index: index, embed: embed}
}

// Upsert normalizes the insert operation, applies it locally and
// returns the internal message for the replication layer.
func (s *Service) Upsert(
	ctx context.Context, collectionName string, op dompoint.InsertOperation, opts WriteOptions,
) (shard.UpsertPointsInternal, error) {
	msg, err := shard.InternalUpsertPoints(opts.ShardID, collectionName, op, opts.Wait, opts.Ordering)
	if err != nil {
		return shard.UpsertPointsInternal{}, err
	}
	if err := s.repo.Upsert(ctx, collectionName, msg.UpsertPoints.Points); err != nil {
		return shard.UpsertPointsInternal{}, fmt.Errorf("upsert points: %w", err)
	}
	return msg, nil
}

// Sync applies a shard catch-up operation by upserting the carried
// points. The from/to id range travels on the internal message for the
// replication layer; local points absent from the list are not removed.
func (s *Service) Sync(
	ctx context.Context, collectionName string, op dompoint.SyncOperation, opts WriteOptions,
) (shard.SyncPointsInternal, error) {
	msg, err := shard.InternalSyncPoints(opts.ShardID, collectionName, op, opts.Wait, opts.Ordering)
	if err != nil {
		return shard.SyncPointsInternal{}, err
	}
	if err := s.repo.Upsert(ctx, collectionName, msg.SyncPoints.Points); err != nil {
		return shard.SyncPointsInternal{}, fmt.Errorf("sync points: %w", err)
	}
	return msg, nil
}

// Delete removes the selected points. An explicit id list wins over the
// filter.
func (s *Service) Delete(
	ctx context.Context, collectionName string, sel Selection, opts WriteOptions,
) (shard.DeletePointsInternal, error) {
	if err := sel.validate(); err != nil {
		return shard.DeletePointsInternal{}, err
	}

	if len(sel.IDs) > 0 {
		if err := s.repo.Delete(ctx, collectionName, sel.IDs); err != nil {
			return shard.DeletePointsInternal{}, fmt.Errorf("delete points: %w", err)
		}
		return shard.InternalDeletePoints(opts.ShardID, collectionName, sel.IDs, opts.Wait, opts.Ordering), nil
	}

	if _, err := s.repo.DeleteByFilter(ctx, collectionName, *sel.Filter); err != nil {
		return shard.DeletePointsInternal{}, fmt.Errorf("delete points by filter: %w", err)
	}
	return shard.InternalDeletePointsByFilter(
		opts.ShardID, collectionName, *sel.Filter, opts.Wait, opts.Ordering,
	), nil
}

// SetPayload merges a payload into the selected points.
func (s *Service) SetPayload(
	ctx context.Context, collectionName string, sel Selection, pl payload.Payload, opts WriteOptions,
) (shard.SetPayloadPointsInternal, error) {
	if err := sel.validate(); err != nil {
		return shard.SetPayloadPointsInternal{}, err
	}

	ids, err := s.resolveSelection(ctx, collectionName, sel)
	if err != nil {
		return shard.SetPayloadPointsInternal{}, err
	}
	if err := s.repo.SetPayload(ctx, collectionName, ids, pl); err != nil {
		return shard.SetPayloadPointsInternal{}, fmt.Errorf("set payload: %w", err)
	}

	return shard.InternalSetPayload(opts.ShardID, collectionName, shard.SetPayloadOperation{
		Payload: pl,
		Points:  sel.IDs,
		Filter:  sel.Filter,
	}, opts.Wait, opts.Ordering), nil
}

// DeletePayload removes payload keys from the selected points.
func (s *Service) DeletePayload(
	ctx context.Context, collectionName string, sel Selection, keys []string, opts WriteOptions,
) (shard.DeletePayloadPointsInternal, error) {
	if err := sel.validate(); err != nil {
		return shard.DeletePayloadPointsInternal{}, err
	}

	ids, err := s.resolveSelection(ctx, collectionName, sel)
	if err != nil {
		return shard.DeletePayloadPointsInternal{}, err
	}
	if err := s.repo.DeletePayloadKeys(ctx, collectionName, ids, keys); err != nil {
		return shard.DeletePayloadPointsInternal{}, fmt.Errorf("delete payload: %w", err)
	}

	return shard.InternalDeletePayload(opts.ShardID, collectionName, shard.DeletePayloadOperation{
		Keys:   keys,
		Points: sel.IDs,
		Filter: sel.Filter,
	}, opts.Wait, opts.Ordering), nil
}

// ClearPayload removes all payload from the selected points.
func (s *Service) ClearPayload(
	ctx context.Context, collectionName string, sel Selection, opts WriteOptions,
) (shard.ClearPayloadPointsInternal, error) {
	if err := sel.validate(); err != nil {
		return shard.ClearPayloadPointsInternal{}, err
	}

	ids, err := s.resolveSelection(ctx, collectionName, sel)
	if err != nil {
		return shard.ClearPayloadPointsInternal{}, err
	}
	if err := s.repo.ClearPayload(ctx, collectionName, ids); err != nil {
		return shard.ClearPayloadPointsInternal{}, fmt.Errorf("clear payload: %w", err)
	}

	if len(sel.IDs) > 0 {
		return shard.InternalClearPayload(opts.ShardID, collectionName, sel.IDs, opts.Wait, opts.Ordering), nil
	}
	return shard.InternalClearPayloadByFilter(
		opts.ShardID, collectionName, *sel.Filter, opts.Wait, opts.Ordering,
	), nil
}

// CreateFieldIndex stores a payload field index definition.
func (s *Service) CreateFieldIndex(
	ctx context.Context, collectionName, fieldName string, schema *shard.FieldSchema, opts WriteOptions,
) (shard.CreateFieldIndexInternal, error) {
	if fieldName == "" {
		return shard.CreateFieldIndexInternal{}, fmt.Errorf("field name is required: %w", domain.ErrMalformedRequest)
	}
	if err := s.indexes.SaveFieldIndex(ctx, collectionName, fieldName, schema); err != nil {
		return shard.CreateFieldIndexInternal{}, fmt.Errorf("save field index: %w", err)
	}
	return shard.InternalCreateIndex(
		opts.ShardID, collectionName, fieldName, schema, opts.Wait, opts.Ordering,
	), nil
}

// DeleteFieldIndex drops a payload field index definition.
func (s *Service) DeleteFieldIndex(
	ctx context.Context, collectionName, fieldName string, opts WriteOptions,
) (shard.DeleteFieldIndexInternal, error) {
	if fieldName == "" {
		return shard.DeleteFieldIndexInternal{}, fmt.Errorf("field name is required: %w", domain.ErrMalformedRequest)
	}
	if err := s.indexes.DeleteFieldIndex(ctx, collectionName, fieldName); err != nil {
		return shard.DeleteFieldIndexInternal{}, fmt.Errorf("delete field index: %w", err)
	}
	return shard.InternalDeleteIndex(opts.ShardID, collectionName, fieldName, opts.Wait, opts.Ordering), nil
}

// Get returns one point by id.
func (s *Service) Get(
	ctx context.Context, collectionName string, id dompoint.ID,
) (dompoint.Struct, error) {
	p, err := s.repo.Get(ctx, collectionName, id)
	if err != nil {
		return dompoint.Struct{}, fmt.Errorf("get point: %w", err)
	}
	return p, nil
}

// Query validates a named query and forwards it to the index layer.
func (s *Service) Query(
	ctx context.Context, collectionName string, q query.NamedQuery[query.QueryVector], limit int,
) ([]ScoredPoint, error) {
	if s.index == nil {
		return nil, fmt.Errorf("query: %w", domain.ErrNotFound)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	hits, err := s.index.Search(ctx, collectionName, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return hits, nil
}

// UpsertText embeds a text into the default dense vector field and
// upserts the resulting point.
func (s *Service) UpsertText(
	ctx context.Context, collectionName string, id dompoint.ID, text string,
	pl payload.Payload, opts WriteOptions,
) (shard.UpsertPointsInternal, error) {
	if s.embed == nil {
		return shard.UpsertPointsInternal{}, fmt.Errorf("no embedder configured: %w", domain.ErrMalformedRequest)
	}
	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		return shard.UpsertPointsInternal{}, fmt.Errorf("embed text: %w", err)
	}
	op := dompoint.InsertOperation{Points: []dompoint.Struct{{
		ID:      id,
		Vectors: vector.SingleStruct(emb),
		Payload: pl,
	}}}
	return s.Upsert(ctx, collectionName, op, opts)
}

// resolveSelection flattens a selection into explicit ids, evaluating
// the filter only when no ids are supplied.
func (s *Service) resolveSelection(
	ctx context.Context, collectionName string, sel Selection,
) ([]dompoint.ID, error) {
	if len(sel.IDs) > 0 {
		return sel.IDs, nil
	}
	ids, err := s.repo.SelectByFilter(ctx, collectionName, *sel.Filter)
	if err != nil {
		return nil, fmt.Errorf("select by filter: %w", err)
	}
	return ids, nil
}
