package vecstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/vecstore/internal/db"
	dbRedis "github.com/kailas-cloud/vecstore/internal/db/redis"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	pointrepo "github.com/kailas-cloud/vecstore/internal/repository/point"
	searchrepo "github.com/kailas-cloud/vecstore/internal/repository/search"
	"github.com/kailas-cloud/vecstore/internal/shard"
	pointsuc "github.com/kailas-cloud/vecstore/internal/usecase/points"
)

const defaultReadinessTimeout = 10 * time.Second

// pointsUseCase is the internal service surface the facades consume,
// narrowed for test substitution.
type pointsUseCase interface {
	Upsert(ctx context.Context, col string, op dompoint.InsertOperation, opts pointsuc.WriteOptions) (shard.UpsertPointsInternal, error)
	UpsertText(ctx context.Context, col string, id dompoint.ID, text string, pl payload.Payload, opts pointsuc.WriteOptions) (shard.UpsertPointsInternal, error)
	Get(ctx context.Context, col string, id dompoint.ID) (dompoint.Struct, error)
	Delete(ctx context.Context, col string, sel pointsuc.Selection, opts pointsuc.WriteOptions) (shard.DeletePointsInternal, error)
	SetPayload(ctx context.Context, col string, sel pointsuc.Selection, pl payload.Payload, opts pointsuc.WriteOptions) (shard.SetPayloadPointsInternal, error)
	DeletePayload(ctx context.Context, col string, sel pointsuc.Selection, keys []string, opts pointsuc.WriteOptions) (shard.DeletePayloadPointsInternal, error)
	ClearPayload(ctx context.Context, col string, sel pointsuc.Selection, opts pointsuc.WriteOptions) (shard.ClearPayloadPointsInternal, error)
	CreateFieldIndex(ctx context.Context, col, field string, schema *shard.FieldSchema, opts pointsuc.WriteOptions) (shard.CreateFieldIndexInternal, error)
	DeleteFieldIndex(ctx context.Context, col, field string, opts pointsuc.WriteOptions) (shard.DeleteFieldIndexInternal, error)
	Query(ctx context.Context, col string, q query.NamedQuery[query.QueryVector], limit int) ([]pointsuc.ScoredPoint, error)
}

// Client is the vecstore SDK entry point.
type Client struct {
	store db.Store
	svc   pointsUseCase
	obs   *observer
}

// New creates a vecstore Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: "vecstore"}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("vecstore: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("vecstore: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("vecstore: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("vecstore: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	pointRepo := pointrepo.New(store, cfg.keyPrefix)
	searchRepo := searchrepo.New(store).WithKeyPrefix(cfg.keyPrefix)

	// Pass nil interface (not a typed nil) when no embedder configured.
	var emb pointsuc.Embedder
	if cfg.embedder != nil {
		emb = cfg.embedder
	}

	svc := pointsuc.New(pointRepo, pointRepo, searchRepo, emb)

	return &Client{store: store, svc: svc, obs: obs}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Points returns the point service for a given collection.
func (c *Client) Points(collection string) *PointsService {
	return &PointsService{
		collection: collection,
		svc:        c.svc,
		obs:        c.obs,
	}
}
