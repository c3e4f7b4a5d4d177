package points

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/domain/vector"
	"github.com/kailas-cloud/vecstore/internal/shard"
	"github.com/kailas-cloud/vecstore/internal/sparse"
)

func testFilter(t *testing.T) filter.Expression {
	t.Helper()
	cond, err := filter.NewMatch("color", "red")
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	f, err := filter.NewExpression([]filter.Condition{cond}, nil, nil)
	if err != nil {
		t.Fatalf("NewExpression: %v", err)
	}
	return f
}

func TestUpsert_BatchAppliedAndMessageBuilt(t *testing.T) {
	var stored []dompoint.Struct
	repo := &mockRepo{
		upsertFn: func(_ context.Context, _ string, points []dompoint.Struct) error {
			stored = points
			return nil
		},
	}
	svc := New(repo, repo, nil, nil)

	op := dompoint.InsertOperation{Batch: &dompoint.Batch{
		IDs:     []dompoint.ID{dompoint.NumID(1), dompoint.NumID(2)},
		Vectors: vector.SingleBatch([][]float32{{1}, {2}}),
	}}

	msg, err := svc.Upsert(context.Background(), "places", op, WriteOptions{Wait: true})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d points, want 2", len(stored))
	}
	if len(msg.UpsertPoints.Points) != 2 || !msg.UpsertPoints.Wait {
		t.Errorf("message = %+v", msg.UpsertPoints)
	}
}

func TestUpsert_InvalidSparseRejected(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, repo, nil, nil)

	bad := sparse.Vector{Indices: []uint32{2, 1}, Values: []float32{1, 2}}
	op := dompoint.InsertOperation{Points: []dompoint.Struct{{
		ID: dompoint.NumID(1),
		Vectors: vector.MultiStruct(map[string]vector.Vector{
			"terms": vector.NewSparse(bad),
		}),
	}}}

	_, err := svc.Upsert(context.Background(), "places", op, WriteOptions{})
	var verr *sparse.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Upsert = %v, want sparse validation error", err)
	}
}

func TestSync_UpsertsCarriedPointsOnly(t *testing.T) {
	var stored []dompoint.Struct
	var deleted []dompoint.ID
	repo := &mockRepo{
		upsertFn: func(_ context.Context, _ string, points []dompoint.Struct) error {
			stored = points
			return nil
		},
		deleteFn: func(_ context.Context, _ string, ids []dompoint.ID) error {
			deleted = ids
			return nil
		},
	}
	svc := New(repo, repo, nil, nil)

	from, to := dompoint.NumID(1), dompoint.NumID(100)
	op := dompoint.SyncOperation{
		Points: []dompoint.Struct{{
			ID:      dompoint.NumID(5),
			Vectors: vector.SingleStruct([]float32{0.1, 0.2}),
		}},
		FromID: &from,
		ToID:   &to,
	}

	msg, err := svc.Sync(context.Background(), "places", op, WriteOptions{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if len(stored) != 1 || !stored[0].ID.Equal(dompoint.NumID(5)) {
		t.Fatalf("stored = %+v", stored)
	}
	// Points already in storage but absent from the carried list stay put.
	if len(deleted) != 0 {
		t.Errorf("deleted = %+v, want none", deleted)
	}
	if msg.SyncPoints.FromID == nil || !msg.SyncPoints.FromID.Equal(from) {
		t.Errorf("message from_id = %+v", msg.SyncPoints.FromID)
	}
}

func TestDelete_IDsWinOverFilter(t *testing.T) {
	var deletedIDs []dompoint.ID
	filterUsed := false
	repo := &mockRepo{
		deleteFn: func(_ context.Context, _ string, ids []dompoint.ID) error {
			deletedIDs = ids
			return nil
		},
		deleteByFilterFn: func(_ context.Context, _ string, _ filter.Expression) ([]dompoint.ID, error) {
			filterUsed = true
			return nil, nil
		},
	}
	svc := New(repo, repo, nil, nil)

	f := testFilter(t)
	msg, err := svc.Delete(context.Background(), "places", Selection{
		IDs:    []dompoint.ID{dompoint.NumID(1)},
		Filter: &f,
	}, WriteOptions{})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if filterUsed {
		t.Error("filter path used despite explicit ids")
	}
	if len(deletedIDs) != 1 {
		t.Errorf("deleted = %v", deletedIDs)
	}
	if msg.DeletePoints.Points.IsFilter() {
		t.Error("message selector must encode the id list")
	}
}

func TestDelete_FilterFallback(t *testing.T) {
	repo := &mockRepo{
		deleteByFilterFn: func(_ context.Context, _ string, _ filter.Expression) ([]dompoint.ID, error) {
			return []dompoint.ID{dompoint.NumID(9)}, nil
		},
	}
	svc := New(repo, repo, nil, nil)

	f := testFilter(t)
	msg, err := svc.Delete(context.Background(), "places", Selection{Filter: &f}, WriteOptions{})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !msg.DeletePoints.Points.IsFilter() {
		t.Error("message selector must encode the filter")
	}
}

func TestDelete_EmptySelection(t *testing.T) {
	svc := New(&mockRepo{}, &mockRepo{}, nil, nil)
	_, err := svc.Delete(context.Background(), "places", Selection{}, WriteOptions{})
	if !errors.Is(err, domain.ErrMalformedRequest) {
		t.Errorf("Delete = %v, want ErrMalformedRequest", err)
	}
}

func TestSetPayload_FilterResolvedLocally(t *testing.T) {
	var applied []dompoint.ID
	repo := &mockRepo{
		selectFn: func(_ context.Context, _ string, _ filter.Expression) ([]dompoint.ID, error) {
			return []dompoint.ID{dompoint.NumID(4)}, nil
		},
		setPayloadFn: func(_ context.Context, _ string, ids []dompoint.ID, _ payload.Payload) error {
			applied = ids
			return nil
		},
	}
	svc := New(repo, repo, nil, nil)

	f := testFilter(t)
	msg, err := svc.SetPayload(context.Background(), "places", Selection{Filter: &f},
		payload.Payload{"a": 1}, WriteOptions{})
	if err != nil {
		t.Fatalf("SetPayload: %v", err)
	}
	if len(applied) != 1 {
		t.Errorf("applied to %v", applied)
	}
	// The outgoing message keeps the filter form so every replica
	// evaluates it against its own shard.
	if !msg.SetPayloadPoints.PointsSelector.IsFilter() {
		t.Error("message selector must keep the filter")
	}
	if msg.SetPayloadPoints.Points != nil {
		t.Error("legacy flat ids must be empty for filter selection")
	}
}

func TestCreateFieldIndex(t *testing.T) {
	var savedSchema *shard.FieldSchema
	repo := &mockRepo{
		saveIndexFn: func(_ context.Context, _, _ string, schema *shard.FieldSchema) error {
			savedSchema = schema
			return nil
		},
	}
	svc := New(repo, repo, nil, nil)

	schema := &shard.FieldSchema{Type: shard.FieldKeyword}
	msg, err := svc.CreateFieldIndex(context.Background(), "places", "color", schema, WriteOptions{})
	if err != nil {
		t.Fatalf("CreateFieldIndex: %v", err)
	}
	if savedSchema == nil || savedSchema.Type != shard.FieldKeyword {
		t.Errorf("saved schema = %v", savedSchema)
	}
	if msg.CreateFieldIndex.FieldName != "color" {
		t.Errorf("message field = %q", msg.CreateFieldIndex.FieldName)
	}

	if _, err := svc.CreateFieldIndex(context.Background(), "places", "", nil, WriteOptions{}); err == nil {
		t.Error("empty field name accepted")
	}
}

func TestQuery_ForwardsToIndex(t *testing.T) {
	idx := &mockIndex{
		searchFn: func(_ context.Context, _ string, q query.NamedQuery[query.QueryVector], limit int,
		) ([]ScoredPoint, error) {
			if q.Name() != "image" || limit != 5 {
				t.Errorf("forwarded name %q limit %d", q.Name(), limit)
			}
			return []ScoredPoint{{ID: dompoint.NumID(1), Score: 0.9}}, nil
		},
	}
	svc := New(&mockRepo{}, &mockRepo{}, idx, nil)

	q := query.NewNamedQueryUsing(query.NearestDense([]float32{1}), "image")
	hits, err := svc.Query(context.Background(), "places", q, 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(hits) != 1 || hits[0].Score != 0.9 {
		t.Errorf("hits = %v", hits)
	}
}

func TestUpsertText_EmbedsIntoDefaultField(t *testing.T) {
	var stored []dompoint.Struct
	repo := &mockRepo{
		upsertFn: func(_ context.Context, _ string, points []dompoint.Struct) error {
			stored = points
			return nil
		},
	}
	emb := &mockEmbedder{
		embedFn: func(_ context.Context, text string) ([]float32, error) {
			if text != "hello" {
				t.Errorf("embedded %q", text)
			}
			return []float32{0.1, 0.2}, nil
		},
	}
	svc := New(repo, repo, nil, emb)

	_, err := svc.UpsertText(context.Background(), "places", dompoint.NumID(1), "hello", nil, WriteOptions{})
	if err != nil {
		t.Fatalf("UpsertText: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d points", len(stored))
	}
	ref, ok := stored[0].Vectors.Get(vector.DefaultName)
	if !ok || ref.Len() != 2 {
		t.Errorf("default vector = %v, %v", ref, ok)
	}
}

func TestUpsertText_NoEmbedder(t *testing.T) {
	svc := New(&mockRepo{}, &mockRepo{}, nil, nil)
	_, err := svc.UpsertText(context.Background(), "places", dompoint.NumID(1), "hi", nil, WriteOptions{})
	if err == nil {
		t.Error("UpsertText without an embedder must fail")
	}
}
