// Package vector holds the vector data model: the dense/sparse tagged
// union, its borrowed view, and the named collection a point's vector
// fields live in.
package vector

import (
	"fmt"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/sparse"
)

// DefaultName is the distinguished name of a point's single unnamed
// vector field.
const DefaultName = ""

// Kind discriminates the vector variant.
type Kind int

// Vector variants.
const (
	KindDense Kind = iota
	KindSparse
)

// Vector is the owned dense-or-sparse tagged union. The variant is fixed
// at construction; narrowing to the wrong variant fails, it never coerces.
type Vector struct {
	kind   Kind
	dense  []float32
	sparse sparse.Vector
}

// NewDense creates a dense vector.
func NewDense(v []float32) Vector {
	return Vector{kind: KindDense, dense: v}
}

// NewSparse creates a sparse vector. The sparse contract is not checked
// here; call Validate where the input is untrusted.
func NewSparse(v sparse.Vector) Vector {
	return Vector{kind: KindSparse, sparse: v}
}

// Kind returns the variant discriminator.
func (v Vector) Kind() Kind { return v.kind }

// AsDense narrows to the dense payload.
func (v Vector) AsDense() ([]float32, error) {
	if v.kind != KindDense {
		return nil, fmt.Errorf("dense requested: %w", domain.ErrWrongSparse)
	}
	return v.dense, nil
}

// AsSparse narrows to the sparse payload.
func (v Vector) AsSparse() (sparse.Vector, error) {
	if v.kind != KindSparse {
		return sparse.Vector{}, fmt.Errorf("sparse requested: %w", domain.ErrWrongSparse)
	}
	return v.sparse, nil
}

// Ref returns a borrowed view over this vector's payload.
func (v *Vector) Ref() Ref {
	if v.kind == KindSparse {
		return Ref{kind: KindSparse, sparse: &v.sparse}
	}
	return Ref{kind: KindDense, dense: v.dense}
}

// Validate checks the payload. Dense vectors have no shape constraint at
// this layer; sparse vectors delegate to the sparse contract.
func (v Vector) Validate() error {
	if v.kind == KindSparse {
		return v.sparse.Validate()
	}
	return nil
}

// IsEmpty reports whether the vector has no elements (dense) or no
// explicit entries (sparse).
func (v Vector) IsEmpty() bool {
	if v.kind == KindSparse {
		return v.sparse.IsEmpty()
	}
	return len(v.dense) == 0
}

// Equal reports structural equality.
func (v Vector) Equal(other Vector) bool {
	if v.kind != other.kind {
		return false
	}
	if v.kind == KindSparse {
		return v.sparse.Equal(other.sparse)
	}
	if len(v.dense) != len(other.dense) {
		return false
	}
	for i := range v.dense {
		if v.dense[i] != other.dense[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy for crossing shard/wire boundaries.
func (v Vector) Clone() Vector {
	if v.kind == KindSparse {
		return Vector{kind: KindSparse, sparse: v.sparse.Clone()}
	}
	d := make([]float32, len(v.dense))
	copy(d, v.dense)
	return Vector{kind: KindDense, dense: d}
}

// Ref is a borrowed, read-only view of a Vector (or of raw dense/sparse
// storage). It must not outlive the value it borrows from; hot read paths
// use it to compare vectors without cloning payloads.
type Ref struct {
	kind   Kind
	dense  []float32
	sparse *sparse.Vector
}

// DenseRef borrows a raw dense slice.
func DenseRef(v []float32) Ref {
	return Ref{kind: KindDense, dense: v}
}

// SparseRef borrows a sparse vector.
func SparseRef(v *sparse.Vector) Ref {
	return Ref{kind: KindSparse, sparse: v}
}

// Kind returns the variant discriminator.
func (r Ref) Kind() Kind { return r.kind }

// AsDense narrows to the borrowed dense slice.
func (r Ref) AsDense() ([]float32, error) {
	if r.kind != KindDense {
		return nil, fmt.Errorf("dense requested: %w", domain.ErrWrongSparse)
	}
	return r.dense, nil
}

// AsSparse narrows to the borrowed sparse vector.
func (r Ref) AsSparse() (*sparse.Vector, error) {
	if r.kind != KindSparse {
		return nil, fmt.Errorf("sparse requested: %w", domain.ErrWrongSparse)
	}
	return r.sparse, nil
}

// Len returns the element count for dense vectors and the explicit entry
// count for sparse ones. Sparse vectors never report a dimensionality.
func (r Ref) Len() int {
	if r.kind == KindSparse {
		return r.sparse.Len()
	}
	return len(r.dense)
}

// IsEmpty reports whether the view has no entries.
func (r Ref) IsEmpty() bool { return r.Len() == 0 }

// ToOwned copies the borrowed payload into an owned Vector.
func (r Ref) ToOwned() Vector {
	if r.kind == KindSparse {
		return Vector{kind: KindSparse, sparse: r.sparse.Clone()}
	}
	d := make([]float32, len(r.dense))
	copy(d, r.dense)
	return Vector{kind: KindDense, dense: d}
}
