package vecstore

import (
	"context"

	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/shard"
	pointsuc "github.com/kailas-cloud/vecstore/internal/usecase/points"
)

// mockPointsUC substitutes the internal points service per test.
type mockPointsUC struct {
	upsertFn     func(ctx context.Context, col string, op dompoint.InsertOperation, opts pointsuc.WriteOptions) (shard.UpsertPointsInternal, error)
	upsertTextFn func(ctx context.Context, col string, id dompoint.ID, text string, pl payload.Payload, opts pointsuc.WriteOptions) (shard.UpsertPointsInternal, error)
	getFn        func(ctx context.Context, col string, id dompoint.ID) (dompoint.Struct, error)
	deleteFn     func(ctx context.Context, col string, sel pointsuc.Selection, opts pointsuc.WriteOptions) (shard.DeletePointsInternal, error)
	setPayloadFn func(ctx context.Context, col string, sel pointsuc.Selection, pl payload.Payload, opts pointsuc.WriteOptions) (shard.SetPayloadPointsInternal, error)
	delPayloadFn func(ctx context.Context, col string, sel pointsuc.Selection, keys []string, opts pointsuc.WriteOptions) (shard.DeletePayloadPointsInternal, error)
	clrPayloadFn func(ctx context.Context, col string, sel pointsuc.Selection, opts pointsuc.WriteOptions) (shard.ClearPayloadPointsInternal, error)
	createIdxFn  func(ctx context.Context, col, field string, schema *shard.FieldSchema, opts pointsuc.WriteOptions) (shard.CreateFieldIndexInternal, error)
	deleteIdxFn  func(ctx context.Context, col, field string, opts pointsuc.WriteOptions) (shard.DeleteFieldIndexInternal, error)
	queryFn      func(ctx context.Context, col string, q query.NamedQuery[query.QueryVector], limit int) ([]pointsuc.ScoredPoint, error)
}

func (m *mockPointsUC) Upsert(ctx context.Context, col string, op dompoint.InsertOperation, opts pointsuc.WriteOptions) (shard.UpsertPointsInternal, error) {
	return m.upsertFn(ctx, col, op, opts)
}

func (m *mockPointsUC) UpsertText(ctx context.Context, col string, id dompoint.ID, text string, pl payload.Payload, opts pointsuc.WriteOptions) (shard.UpsertPointsInternal, error) {
	return m.upsertTextFn(ctx, col, id, text, pl, opts)
}

func (m *mockPointsUC) Get(ctx context.Context, col string, id dompoint.ID) (dompoint.Struct, error) {
	return m.getFn(ctx, col, id)
}

func (m *mockPointsUC) Delete(ctx context.Context, col string, sel pointsuc.Selection, opts pointsuc.WriteOptions) (shard.DeletePointsInternal, error) {
	return m.deleteFn(ctx, col, sel, opts)
}

func (m *mockPointsUC) SetPayload(ctx context.Context, col string, sel pointsuc.Selection, pl payload.Payload, opts pointsuc.WriteOptions) (shard.SetPayloadPointsInternal, error) {
	return m.setPayloadFn(ctx, col, sel, pl, opts)
}

func (m *mockPointsUC) DeletePayload(ctx context.Context, col string, sel pointsuc.Selection, keys []string, opts pointsuc.WriteOptions) (shard.DeletePayloadPointsInternal, error) {
	return m.delPayloadFn(ctx, col, sel, keys, opts)
}

func (m *mockPointsUC) ClearPayload(ctx context.Context, col string, sel pointsuc.Selection, opts pointsuc.WriteOptions) (shard.ClearPayloadPointsInternal, error) {
	return m.clrPayloadFn(ctx, col, sel, opts)
}

func (m *mockPointsUC) CreateFieldIndex(ctx context.Context, col, field string, schema *shard.FieldSchema, opts pointsuc.WriteOptions) (shard.CreateFieldIndexInternal, error) {
	return m.createIdxFn(ctx, col, field, schema, opts)
}

func (m *mockPointsUC) DeleteFieldIndex(ctx context.Context, col, field string, opts pointsuc.WriteOptions) (shard.DeleteFieldIndexInternal, error) {
	return m.deleteIdxFn(ctx, col, field, opts)
}

func (m *mockPointsUC) Query(ctx context.Context, col string, q query.NamedQuery[query.QueryVector], limit int) ([]pointsuc.ScoredPoint, error) {
	return m.queryFn(ctx, col, q, limit)
}

func testClient(svc pointsUseCase) *Client {
	return &Client{svc: svc}
}
