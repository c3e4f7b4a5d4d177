// Package search adapts the engine's FT KNN search to the point query
// model. Comparison queries (recommend, discovery, context) are reduced
// to a single target vector before hitting the index.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/vecstore/internal/db"
	"github.com/kailas-cloud/vecstore/internal/domain"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/domain/vector"
	pointsuc "github.com/kailas-cloud/vecstore/internal/usecase/points"
)

const defaultKeyPrefix = "vecstore"

// store is the subset of db.Store the search repository needs.
type store interface {
	db.VectorSearcher
}

// Repo runs vector queries against the engine's FT index.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s, keyPrefix: defaultKeyPrefix}
}

// WithKeyPrefix overrides the key prefix (must match the point repository).
func (r *Repo) WithKeyPrefix(prefix string) *Repo {
	r.keyPrefix = prefix
	return r
}

// Search resolves the query into a target vector and runs KNN against
// the per-collection, per-field index.
func (r *Repo) Search(
	ctx context.Context,
	collectionName string,
	q query.NamedQuery[query.QueryVector],
	limit int,
) ([]pointsuc.ScoredPoint, error) {
	target, err := resolveTarget(q.Query)
	if err != nil {
		return nil, err
	}

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName(collectionName, q.Name()),
		Vector:       target,
		K:            limit,
		ReturnFields: []string{"__vector_score"},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	hits := make([]pointsuc.ScoredPoint, 0, len(res.Entries))
	for _, e := range res.Entries {
		id, err := idFromKey(e.Key)
		if err != nil {
			continue // foreign key under the index prefix
		}
		hits = append(hits, pointsuc.ScoredPoint{ID: id, Score: float32(e.Score)})
	}
	return hits, nil
}

func (r *Repo) indexName(collectionName, field string) string {
	if field == vector.DefaultName {
		field = "default"
	}
	return fmt.Sprintf("%s:%s:idx:%s", r.keyPrefix, collectionName, field)
}

func idFromKey(key string) (dompoint.ID, error) {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return dompoint.ID{}, fmt.Errorf("key %q has no id segment", key)
	}
	return dompoint.ParseID(key[i+1:])
}

// resolveTarget reduces a query to the dense vector submitted to the
// index. Sparse queries need a sparse index, which this backend does
// not provide.
func resolveTarget(q query.QueryVector) ([]float32, error) {
	switch q.Kind() {
	case query.KindNearest:
		v, _ := q.Nearest()
		return denseOf(v)

	case query.KindRecommend:
		reco, _ := q.Recommend()
		if len(reco.Positives) == 0 {
			return nil, fmt.Errorf("recommend needs at least one positive example: %w",
				domain.ErrMalformedRequest)
		}
		pos, err := centroid(reco.Positives)
		if err != nil {
			return nil, err
		}
		if len(reco.Negatives) == 0 {
			return pos, nil
		}
		neg, err := centroid(reco.Negatives)
		if err != nil {
			return nil, err
		}
		return subtract(pos, neg)

	case query.KindDiscovery:
		disc, _ := q.Discovery()
		target, err := denseOf(disc.Target)
		if err != nil {
			return nil, err
		}
		drift, err := pairDrift(disc.Pairs, len(target))
		if err != nil {
			return nil, err
		}
		return add(target, drift)

	case query.KindContext:
		cq, _ := q.Context()
		if len(cq.Pairs) == 0 {
			return nil, fmt.Errorf("context query needs at least one pair: %w",
				domain.ErrMalformedRequest)
		}
		return pairDrift(cq.Pairs, 0)

	default:
		return nil, fmt.Errorf("unknown query kind: %w", domain.ErrMalformedRequest)
	}
}

func denseOf(v vector.Vector) ([]float32, error) {
	d, err := v.AsDense()
	if err != nil {
		return nil, fmt.Errorf("this index searches dense vectors only: %w", err)
	}
	return d, nil
}

// centroid averages a non-empty example set element-wise.
func centroid(examples []vector.Vector) ([]float32, error) {
	var sum []float32
	for _, ex := range examples {
		d, err := denseOf(ex)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = make([]float32, len(d))
		}
		if len(d) != len(sum) {
			return nil, fmt.Errorf("example has %d dimensions, want %d: %w",
				len(d), len(sum), domain.ErrVectorDimMismatch)
		}
		for i, f := range d {
			sum[i] += f
		}
	}
	n := float32(len(examples))
	for i := range sum {
		sum[i] /= n
	}
	return sum, nil
}

// pairDrift averages the positive-minus-negative differences of the
// pairs. wantDim of 0 accepts the first pair's dimensionality.
func pairDrift(pairs []query.ContextPair, wantDim int) ([]float32, error) {
	if len(pairs) == 0 {
		return make([]float32, wantDim), nil
	}
	var sum []float32
	for _, p := range pairs {
		pos, err := denseOf(p.Positive)
		if err != nil {
			return nil, err
		}
		neg, err := denseOf(p.Negative)
		if err != nil {
			return nil, err
		}
		diff, err := subtract(pos, neg)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			if wantDim != 0 && len(diff) != wantDim {
				return nil, fmt.Errorf("pair has %d dimensions, want %d: %w",
					len(diff), wantDim, domain.ErrVectorDimMismatch)
			}
			sum = make([]float32, len(diff))
		}
		if len(diff) != len(sum) {
			return nil, fmt.Errorf("pair has %d dimensions, want %d: %w",
				len(diff), len(sum), domain.ErrVectorDimMismatch)
		}
		for i, f := range diff {
			sum[i] += f
		}
	}
	n := float32(len(pairs))
	for i := range sum {
		sum[i] /= n
	}
	return sum, nil
}

func subtract(a, b []float32) ([]float32, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%d vs %d dimensions: %w", len(a), len(b), domain.ErrVectorDimMismatch)
	}
	out := make([]float32, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out, nil
}

func add(a, b []float32) ([]float32, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%d vs %d dimensions: %w", len(a), len(b), domain.ErrVectorDimMismatch)
	}
	out := make([]float32, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out, nil
}
