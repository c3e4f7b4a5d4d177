package sparse

import (
	"errors"
	"testing"
)

func TestNew_SortsPairs(t *testing.T) {
	v, err := New([]uint32{5, 1, 3}, []float32{0.5, 0.1, 0.3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIdx := []uint32{1, 3, 5}
	wantVal := []float32{0.1, 0.3, 0.5}
	for i := range wantIdx {
		if v.Indices[i] != wantIdx[i] {
			t.Errorf("Indices[%d] = %d, want %d", i, v.Indices[i], wantIdx[i])
		}
		if v.Values[i] != wantVal[i] {
			t.Errorf("Values[%d] = %v, want %v", i, v.Values[i], wantVal[i])
		}
	}
}

func TestNew_DuplicateIndices(t *testing.T) {
	_, err := New([]uint32{1, 1, 2}, []float32{0.1, 0.2, 0.3})
	if err == nil {
		t.Fatal("expected error for duplicate indices")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("error = %T, want *ValidationError", err)
	}
}

func TestValidate_LengthMismatch(t *testing.T) {
	v := Vector{Indices: []uint32{1, 2}, Values: []float32{0.1}}
	if err := v.Validate(); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestValidate_NonAscending(t *testing.T) {
	v := Vector{Indices: []uint32{3, 1}, Values: []float32{0.3, 0.1}}
	if err := v.Validate(); err == nil {
		t.Fatal("expected error for non-ascending indices")
	}
}

func TestValidate_Empty(t *testing.T) {
	if err := (Vector{}).Validate(); err != nil {
		t.Errorf("empty vector should be valid, got %v", err)
	}
	if !(Vector{}).IsEmpty() {
		t.Error("empty vector should report IsEmpty")
	}
}

func TestEqual(t *testing.T) {
	a := Vector{Indices: []uint32{1, 2}, Values: []float32{0.1, 0.2}}
	b := Vector{Indices: []uint32{1, 2}, Values: []float32{0.1, 0.2}}
	c := Vector{Indices: []uint32{1, 3}, Values: []float32{0.1, 0.2}}

	if !a.Equal(b) {
		t.Error("identical vectors should be equal")
	}
	if a.Equal(c) {
		t.Error("vectors with different indices should not be equal")
	}
}

func TestClone_Independent(t *testing.T) {
	a := Vector{Indices: []uint32{1}, Values: []float32{0.1}}
	c := a.Clone()
	c.Indices[0] = 9
	c.Values[0] = 9

	if a.Indices[0] != 1 || a.Values[0] != 0.1 {
		t.Error("clone mutation leaked into original")
	}
}
