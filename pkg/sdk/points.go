package vecstore

import (
	"context"
	"fmt"
	"time"

	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	pointsuc "github.com/kailas-cloud/vecstore/internal/usecase/points"
)

// PointsService manages points within a single collection.
type PointsService struct {
	collection string
	svc        pointsUseCase
	obs        *observer
}

// Upsert creates or replaces points.
func (s *PointsService) Upsert(ctx context.Context, points ...Point) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("upsert", start, err) }()

	op := dompoint.InsertOperation{Points: make([]dompoint.Struct, len(points))}
	for i, p := range points {
		op.Points[i], err = toInternalPoint(p)
		if err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
	}
	if _, err = s.svc.Upsert(ctx, s.collection, op, pointsuc.WriteOptions{}); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// UpsertText embeds a text and upserts the resulting point. Requires an
// embedder configured via WithEmbedder.
func (s *PointsService) UpsertText(
	ctx context.Context, id, text string, payload map[string]any,
) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("upsert_text", start, err) }()

	pid, err := toInternalID(id)
	if err != nil {
		return fmt.Errorf("upsert text: %w", err)
	}
	if _, err = s.svc.UpsertText(ctx, s.collection, pid, text, payload, pointsuc.WriteOptions{}); err != nil {
		return fmt.Errorf("upsert text: %w", err)
	}
	return nil
}

// Get retrieves a point by ID.
func (s *PointsService) Get(ctx context.Context, id string) (_ Point, err error) {
	start := time.Now()
	defer func() { s.obs.observe("get", start, err) }()

	pid, err := toInternalID(id)
	if err != nil {
		return Point{}, fmt.Errorf("get point: %w", err)
	}
	p, err := s.svc.Get(ctx, s.collection, pid)
	if err != nil {
		return Point{}, fmt.Errorf("get point: %w", err)
	}
	return fromInternalPoint(p), nil
}

// Delete removes points by explicit IDs.
func (s *PointsService) Delete(ctx context.Context, ids ...string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete", start, err) }()

	sel, err := toInternalSelection(ids, nil)
	if err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	if _, err = s.svc.Delete(ctx, s.collection, sel, pointsuc.WriteOptions{}); err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	return nil
}

// DeleteByFilter removes every point matching the filter.
func (s *PointsService) DeleteByFilter(ctx context.Context, f FilterExpression) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete_by_filter", start, err) }()

	sel, err := toInternalSelection(nil, &f)
	if err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	if _, err = s.svc.Delete(ctx, s.collection, sel, pointsuc.WriteOptions{}); err != nil {
		return fmt.Errorf("delete points: %w", err)
	}
	return nil
}

// SetPayload merges the payload into the selected points.
func (s *PointsService) SetPayload(
	ctx context.Context, payload map[string]any, ids ...string,
) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("set_payload", start, err) }()

	sel, err := toInternalSelection(ids, nil)
	if err != nil {
		return fmt.Errorf("set payload: %w", err)
	}
	if _, err = s.svc.SetPayload(ctx, s.collection, sel, payload, pointsuc.WriteOptions{}); err != nil {
		return fmt.Errorf("set payload: %w", err)
	}
	return nil
}

// DeletePayload removes payload keys from the selected points.
func (s *PointsService) DeletePayload(
	ctx context.Context, keys []string, ids ...string,
) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete_payload", start, err) }()

	sel, err := toInternalSelection(ids, nil)
	if err != nil {
		return fmt.Errorf("delete payload: %w", err)
	}
	if _, err = s.svc.DeletePayload(ctx, s.collection, sel, keys, pointsuc.WriteOptions{}); err != nil {
		return fmt.Errorf("delete payload: %w", err)
	}
	return nil
}

// ClearPayload removes all payload from the selected points.
func (s *PointsService) ClearPayload(ctx context.Context, ids ...string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("clear_payload", start, err) }()

	sel, err := toInternalSelection(ids, nil)
	if err != nil {
		return fmt.Errorf("clear payload: %w", err)
	}
	if _, err = s.svc.ClearPayload(ctx, s.collection, sel, pointsuc.WriteOptions{}); err != nil {
		return fmt.Errorf("clear payload: %w", err)
	}
	return nil
}

// CreateFieldIndex declares a payload field index. text is optional and
// only meaningful for FieldText.
func (s *PointsService) CreateFieldIndex(
	ctx context.Context, field string, ft FieldType, text *TextIndexOptions,
) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("create_field_index", start, err) }()

	schema := toInternalFieldSchema(ft, text)
	if _, err = s.svc.CreateFieldIndex(ctx, s.collection, field, schema, pointsuc.WriteOptions{}); err != nil {
		return fmt.Errorf("create field index: %w", err)
	}
	return nil
}

// DeleteFieldIndex drops a payload field index.
func (s *PointsService) DeleteFieldIndex(ctx context.Context, field string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("delete_field_index", start, err) }()

	if _, err = s.svc.DeleteFieldIndex(ctx, s.collection, field, pointsuc.WriteOptions{}); err != nil {
		return fmt.Errorf("delete field index: %w", err)
	}
	return nil
}

// Query starts a fluent query against this collection.
func (s *PointsService) Query() *QueryBuilder {
	return &QueryBuilder{svc: s, limit: 10}
}
