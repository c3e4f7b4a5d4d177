package vector

import (
	"fmt"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/sparse"
)

// VectorStruct is the point-level wire shape: either one unnamed dense
// vector or a name to vector mapping. A Single is semantically the same
// as a Multi with exactly one entry under the default name; conversions
// preserve that equivalence in both directions.
type VectorStruct struct {
	multi  bool
	single []float32
	named  map[string]Vector
}

// SingleStruct creates the unnamed single-vector shape.
func SingleStruct(v []float32) VectorStruct {
	return VectorStruct{single: v}
}

// MultiStruct creates the named multi-vector shape.
func MultiStruct(m map[string]Vector) VectorStruct {
	if m == nil {
		m = make(map[string]Vector)
	}
	return VectorStruct{multi: true, named: m}
}

// FromNamedVectors canonicalizes a collection: exactly one dense entry
// under the default name collapses to Single, everything else becomes
// Multi. A sparse vector under the default name stays named.
func FromNamedVectors(n NamedVectors) VectorStruct {
	if n.Len() == 1 && n.Contains(DefaultName) {
		v, _ := n.Get(DefaultName)
		if dense, err := v.AsDense(); err == nil {
			return SingleStruct(dense)
		}
	}
	return MultiStruct(n.IntoMap())
}

// IsMulti reports whether this is the named shape.
func (s VectorStruct) IsMulti() bool { return s.multi }

// Single returns the unnamed dense vector.
func (s VectorStruct) Single() ([]float32, error) {
	if s.multi {
		return nil, fmt.Errorf("multi vector struct has no single vector: %w", domain.ErrWrongSparse)
	}
	return s.single, nil
}

// Multi returns the name to vector mapping.
func (s VectorStruct) Multi() (map[string]Vector, error) {
	if !s.multi {
		return nil, fmt.Errorf("single vector struct has no named vectors: %w", domain.ErrWrongSparse)
	}
	return s.named, nil
}

// Get resolves a vector field by name. On a Single only the default name
// resolves; any other name is a miss.
func (s VectorStruct) Get(name string) (Ref, bool) {
	if !s.multi {
		if name != DefaultName {
			return Ref{}, false
		}
		return DenseRef(s.single), true
	}
	v, ok := s.named[name]
	if !ok {
		return Ref{}, false
	}
	return v.Ref(), true
}

// IsEmpty reports whether every contained vector is empty.
func (s VectorStruct) IsEmpty() bool {
	if !s.multi {
		return len(s.single) == 0
	}
	for _, v := range s.named {
		if !v.IsEmpty() {
			return false
		}
	}
	return true
}

// IntoNamedVectors expands the struct into a named collection. Single
// becomes a one-entry default-named collection.
func (s VectorStruct) IntoNamedVectors() NamedVectors {
	if !s.multi {
		return OnlyDefault(s.single)
	}
	return NamedVectorsFromMap(s.named)
}

// Validate checks every contained vector against its own contract.
func (s VectorStruct) Validate() error {
	if !s.multi {
		return nil
	}
	for name, v := range s.named {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("vector %q: %w", name, err)
		}
	}
	return nil
}

// NamedVectorStructKind discriminates the query-input vector shape.
type NamedVectorStructKind int

// NamedVectorStruct variants.
const (
	NamedKindDefault NamedVectorStructKind = iota
	NamedKindNamed
	NamedKindSparse
)

// NamedVectorStruct is the query-input shape: an unnamed dense vector, a
// named dense vector, or a named sparse vector. It identifies which
// named vector field a query targets.
type NamedVectorStruct struct {
	kind   NamedVectorStructKind
	name   string
	dense  []float32
	sparse sparse.Vector
}

// DefaultVector creates the unnamed dense query input.
func DefaultVector(v []float32) NamedVectorStruct {
	return NamedVectorStruct{kind: NamedKindDefault, dense: v}
}

// NamedDense creates a named dense query input.
func NamedDense(name string, v []float32) NamedVectorStruct {
	return NamedVectorStruct{kind: NamedKindNamed, name: name, dense: v}
}

// NamedSparse creates a named sparse query input.
func NamedSparse(name string, v sparse.Vector) NamedVectorStruct {
	return NamedVectorStruct{kind: NamedKindSparse, name: name, sparse: v}
}

// NamedFromVector wraps an owned Vector under a name, picking the named
// variant matching the vector's own.
func NamedFromVector(name string, v Vector) NamedVectorStruct {
	if v.Kind() == KindSparse {
		sv, _ := v.AsSparse()
		return NamedSparse(name, sv)
	}
	d, _ := v.AsDense()
	return NamedDense(name, d)
}

// Kind returns the variant discriminator.
func (s NamedVectorStruct) Kind() NamedVectorStructKind { return s.kind }

// Name returns the target field name. The Default variant resolves to
// the default name; named variants return their carried name verbatim.
func (s NamedVectorStruct) Name() string {
	if s.kind == NamedKindDefault {
		return DefaultName
	}
	return s.name
}

// Vector returns a borrowed view of the query vector without cloning.
func (s *NamedVectorStruct) Vector() Ref {
	if s.kind == NamedKindSparse {
		return SparseRef(&s.sparse)
	}
	return DenseRef(s.dense)
}

// IntoVector consumes the struct into an owned Vector.
func (s NamedVectorStruct) IntoVector() Vector {
	if s.kind == NamedKindSparse {
		return NewSparse(s.sparse)
	}
	return NewDense(s.dense)
}

// Validate is variant-specific: dense shapes have no constraint here,
// the sparse variant delegates to the sparse contract.
func (s NamedVectorStruct) Validate() error {
	if s.kind == NamedKindSparse {
		return s.sparse.Validate()
	}
	return nil
}

// BatchVectorStruct is the bulk-ingestion wire shape: either one
// row-major list of dense vectors (one per point) or a column-major
// name to vector-list mapping that transposes into one named collection
// per point.
type BatchVectorStruct struct {
	multi  bool
	single [][]float32
	named  map[string][]Vector
}

// SingleBatch creates the row-major dense batch shape.
func SingleBatch(vectors [][]float32) BatchVectorStruct {
	return BatchVectorStruct{single: vectors}
}

// MultiBatch creates the column-major named batch shape.
func MultiBatch(m map[string][]Vector) BatchVectorStruct {
	if m == nil {
		m = make(map[string][]Vector)
	}
	return BatchVectorStruct{multi: true, named: m}
}

// IsMulti reports whether this is the named shape.
func (b BatchVectorStruct) IsMulti() bool { return b.multi }

// CheckAligned verifies every per-name list holds exactly numRecords
// vectors. Callers must reject misaligned batches before transposing.
func (b BatchVectorStruct) CheckAligned(numRecords int) error {
	if !b.multi {
		if len(b.single) != numRecords {
			return fmt.Errorf("%d vectors for %d points: %w",
				len(b.single), numRecords, domain.ErrBatchLengthMismatch)
		}
		return nil
	}
	for name, list := range b.named {
		if len(list) != numRecords {
			return fmt.Errorf("field %q has %d vectors for %d points: %w",
				name, len(list), numRecords, domain.ErrBatchLengthMismatch)
		}
	}
	return nil
}

// IntoAllVectors transposes the batch into one named collection per
// point. An empty named mapping yields numRecords empty collections.
// Lists are assumed position-aligned; misaligned input must be rejected
// via CheckAligned first.
func (b BatchVectorStruct) IntoAllVectors(numRecords int) []NamedVectors {
	if !b.multi {
		out := make([]NamedVectors, len(b.single))
		for i, v := range b.single {
			out[i] = OnlyDefault(v)
		}
		return out
	}

	out := make([]NamedVectors, numRecords)
	for i := range out {
		out[i] = NewNamedVectors()
	}
	for name, list := range b.named {
		for i := 0; i < numRecords; i++ {
			out[i].Insert(name, list[i])
		}
	}
	return out
}

// Validate checks every contained vector against its own contract.
func (b BatchVectorStruct) Validate() error {
	if !b.multi {
		return nil
	}
	for name, list := range b.named {
		for i, v := range list {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("field %q vector %d: %w", name, i, err)
			}
		}
	}
	return nil
}
