package vecstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/domain/vector"
	"github.com/kailas-cloud/vecstore/internal/sparse"
)

// ContextPair is one positive/negative example pair for discovery and
// context queries.
type ContextPair struct {
	Positive []float32
	Negative []float32
}

// QueryBuilder is a fluent builder for point queries. Exactly one of
// Nearest, NearestSparse, Recommend, Discover or Context must be set.
type QueryBuilder struct {
	svc *PointsService

	qv    *query.QueryVector
	using string
	limit int
}

// Nearest searches for neighbors of a dense vector.
func (b *QueryBuilder) Nearest(v []float32) *QueryBuilder {
	q := query.NearestDense(v)
	b.qv = &q
	return b
}

// NearestSparse searches for neighbors of a sparse vector.
func (b *QueryBuilder) NearestSparse(v SparseVector) *QueryBuilder {
	q := query.NearestSparse(sparse.Vector{Indices: v.Indices, Values: v.Values})
	b.qv = &q
	return b
}

// Recommend searches near positive examples and away from negatives.
func (b *QueryBuilder) Recommend(positives, negatives [][]float32) *QueryBuilder {
	q := query.Recommend(query.RecoQuery{
		Positives: denseVectors(positives),
		Negatives: denseVectors(negatives),
	})
	b.qv = &q
	return b
}

// Discover steers search toward a target biased by context pairs.
func (b *QueryBuilder) Discover(target []float32, pairs []ContextPair) *QueryBuilder {
	q := query.Discovery(query.DiscoveryQuery{
		Target: vector.NewDense(target),
		Pairs:  contextPairs(pairs),
	})
	b.qv = &q
	return b
}

// Context searches by context pairs alone, without a target.
func (b *QueryBuilder) Context(pairs []ContextPair) *QueryBuilder {
	q := query.Context(query.ContextQuery{Pairs: contextPairs(pairs)})
	b.qv = &q
	return b
}

// Using targets a named vector field instead of the default one.
func (b *QueryBuilder) Using(field string) *QueryBuilder {
	b.using = field
	return b
}

// Limit caps the number of returned hits. Default: 10.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.limit = n
	return b
}

// Do executes the query.
func (b *QueryBuilder) Do(ctx context.Context) (hits []ScoredPoint, err error) {
	start := time.Now()
	defer func() { b.svc.obs.observe("query", start, err) }()

	if b.qv == nil {
		return nil, errors.New("vecstore: query vector required (use Nearest, Recommend, Discover or Context)")
	}

	nq := query.NewNamedQueryUsing(*b.qv, b.using)
	result, err := b.svc.svc.Query(ctx, b.svc.collection, nq, b.limit)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return fromScoredPoints(result), nil
}

func denseVectors(vs [][]float32) []vector.Vector {
	if len(vs) == 0 {
		return nil
	}
	out := make([]vector.Vector, len(vs))
	for i, v := range vs {
		out[i] = vector.NewDense(v)
	}
	return out
}

func contextPairs(pairs []ContextPair) []query.ContextPair {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]query.ContextPair, len(pairs))
	for i, p := range pairs {
		out[i] = query.ContextPair{
			Positive: vector.NewDense(p.Positive),
			Negative: vector.NewDense(p.Negative),
		}
	}
	return out
}
