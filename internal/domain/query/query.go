// Package query holds the comparison-query abstraction the index layer
// evaluates: the four query kinds and the named wrapper binding a query
// to the vector field it targets.
package query

import (
	"github.com/kailas-cloud/vecstore/internal/domain/vector"
	"github.com/kailas-cloud/vecstore/internal/sparse"
)

// ContextPair is one positive/negative example pair for context-driven
// queries.
type ContextPair struct {
	Positive vector.Vector
	Negative vector.Vector
}

// RecoQuery compares candidates against positive and negative examples.
// Its emptiness and structure rules belong to the index layer; the
// payload is opaque here.
type RecoQuery struct {
	Positives []vector.Vector
	Negatives []vector.Vector
}

// DiscoveryQuery steers search toward a target constrained by context
// pairs.
type DiscoveryQuery struct {
	Target vector.Vector
	Pairs  []ContextPair
}

// ContextQuery searches by context pairs alone, without a target.
type ContextQuery struct {
	Pairs []ContextPair
}

// Kind discriminates the comparison the index must perform.
type Kind int

// Query kinds.
const (
	KindNearest Kind = iota
	KindRecommend
	KindDiscovery
	KindContext
)

// QueryVector is the closed union over the four query kinds. Example
// vectors inside comparison payloads are supplied by the caller and not
// validated here.
type QueryVector struct {
	kind      Kind
	nearest   vector.Vector
	recommend RecoQuery
	discovery DiscoveryQuery
	context   ContextQuery
}

// Nearest creates a plain nearest-neighbor query.
func Nearest(v vector.Vector) QueryVector {
	return QueryVector{kind: KindNearest, nearest: v}
}

// NearestDense creates a nearest query from a raw dense slice.
func NearestDense(v []float32) QueryVector {
	return Nearest(vector.NewDense(v))
}

// NearestSparse creates a nearest query from a sparse vector.
func NearestSparse(v sparse.Vector) QueryVector {
	return Nearest(vector.NewSparse(v))
}

// NearestRef creates a nearest query by copying a borrowed view into an
// owned vector.
func NearestRef(r vector.Ref) QueryVector {
	return Nearest(r.ToOwned())
}

// Recommend wraps a recommendation payload.
func Recommend(q RecoQuery) QueryVector {
	return QueryVector{kind: KindRecommend, recommend: q}
}

// Discovery wraps a discovery payload.
func Discovery(q DiscoveryQuery) QueryVector {
	return QueryVector{kind: KindDiscovery, discovery: q}
}

// Context wraps a context payload.
func Context(q ContextQuery) QueryVector {
	return QueryVector{kind: KindContext, context: q}
}

// Kind returns the query kind.
func (q QueryVector) Kind() Kind { return q.kind }

// Nearest returns the nearest-query vector.
func (q QueryVector) Nearest() (vector.Vector, bool) {
	return q.nearest, q.kind == KindNearest
}

// Recommend returns the recommendation payload.
func (q QueryVector) Recommend() (RecoQuery, bool) {
	return q.recommend, q.kind == KindRecommend
}

// Discovery returns the discovery payload.
func (q QueryVector) Discovery() (DiscoveryQuery, bool) {
	return q.discovery, q.kind == KindDiscovery
}

// Context returns the context payload.
func (q QueryVector) Context() (ContextQuery, bool) {
	return q.context, q.kind == KindContext
}

// Validatable is implemented by query payloads that carry their own
// validation.
type Validatable interface {
	Validate() error
}

// NamedQuery binds a query payload to the name of the vector field it
// targets. An empty Using means the default field.
type NamedQuery[T any] struct {
	Query T
	Using string
}

// NewNamedQuery creates a query against the default vector field.
func NewNamedQuery[T any](q T) NamedQuery[T] {
	return NamedQuery[T]{Query: q}
}

// NewNamedQueryUsing creates a query against a named vector field.
func NewNamedQueryUsing[T any](q T, using string) NamedQuery[T] {
	return NamedQuery[T]{Query: q, Using: using}
}

// Name returns the target field name, resolving empty Using to the
// default vector name.
func (q NamedQuery[T]) Name() string {
	if q.Using == "" {
		return vector.DefaultName
	}
	return q.Using
}

// Validate forwards to the wrapped payload when it defines validation.
func (q NamedQuery[T]) Validate() error {
	if v, ok := any(q.Query).(Validatable); ok {
		return v.Validate()
	}
	return nil
}
