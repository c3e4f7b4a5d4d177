// Package sparse holds the sparse vector representation shared by the
// data model and the index layer.
package sparse

import (
	"fmt"
	"sort"
)

// Vector is a sparse vector: explicit (index, value) pairs for non-zero
// dimensions only. Indices are dimension numbers, sorted ascending.
type Vector struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// ValidationError reports a malformed sparse vector.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid sparse vector: " + e.Reason
}

// New creates a sparse vector from unsorted (index, value) pairs.
// Pairs are sorted by index; duplicate indices fail validation.
func New(indices []uint32, values []float32) (Vector, error) {
	v := Vector{Indices: indices, Values: values}
	v.Sort()
	if err := v.Validate(); err != nil {
		return Vector{}, err
	}
	return v, nil
}

// Validate checks the sparse vector contract: index and value lists of
// equal length, indices strictly ascending (which implies unique).
func (v Vector) Validate() error {
	if len(v.Indices) != len(v.Values) {
		return &ValidationError{
			Reason: fmt.Sprintf("%d indices vs %d values", len(v.Indices), len(v.Values)),
		}
	}
	for i := 1; i < len(v.Indices); i++ {
		if v.Indices[i] <= v.Indices[i-1] {
			return &ValidationError{
				Reason: fmt.Sprintf("indices must be strictly ascending, got %d after %d at position %d",
					v.Indices[i], v.Indices[i-1], i),
			}
		}
	}
	return nil
}

// Sort orders the pairs by index, keeping values aligned.
// Does nothing when the index and value lists differ in length.
func (v *Vector) Sort() {
	if len(v.Indices) != len(v.Values) {
		return
	}
	if sort.SliceIsSorted(v.Indices, func(i, j int) bool { return v.Indices[i] < v.Indices[j] }) {
		return
	}
	type pair struct {
		idx uint32
		val float32
	}
	pairs := make([]pair, len(v.Indices))
	for i := range v.Indices {
		pairs[i] = pair{v.Indices[i], v.Values[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].idx < pairs[j].idx })
	for i, p := range pairs {
		v.Indices[i] = p.idx
		v.Values[i] = p.val
	}
}

// Len returns the number of explicit entries.
func (v Vector) Len() int { return len(v.Indices) }

// IsEmpty reports whether the vector has no explicit entries.
func (v Vector) IsEmpty() bool { return len(v.Indices) == 0 }

// Equal reports structural equality of two sparse vectors.
func (v Vector) Equal(other Vector) bool {
	if len(v.Indices) != len(other.Indices) || len(v.Values) != len(other.Values) {
		return false
	}
	for i := range v.Indices {
		if v.Indices[i] != other.Indices[i] || v.Values[i] != other.Values[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (v Vector) Clone() Vector {
	c := Vector{
		Indices: make([]uint32, len(v.Indices)),
		Values:  make([]float32, len(v.Values)),
	}
	copy(c.Indices, v.Indices)
	copy(c.Values, v.Values)
	return c
}
