package vector

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/sparse"
)

func TestVectorStruct_DefaultCollapseRoundTrip(t *testing.T) {
	original := OnlyDefault([]float32{1, 2, 3})

	s := FromNamedVectors(original)
	if s.IsMulti() {
		t.Fatal("one default-named dense entry must collapse to Single")
	}

	expanded := s.IntoNamedVectors()
	if !expanded.Equal(original) {
		t.Error("Single did not expand back to the original collection")
	}
}

func TestVectorStruct_MultiRoundTrip(t *testing.T) {
	original := NewNamedVectors()
	original.Insert("image", NewDense([]float32{1}))
	original.Insert("text", NewDense([]float32{2}))

	s := FromNamedVectors(original)
	if !s.IsMulti() {
		t.Fatal("multi-entry collection must produce Multi")
	}
	if !s.IntoNamedVectors().Equal(original) {
		t.Error("Multi did not expand back to the original mapping")
	}
}

func TestVectorStruct_NonDefaultSingleEntryStaysMulti(t *testing.T) {
	n := NamedVectorsFrom("image", NewDense([]float32{1}))
	if !FromNamedVectors(n).IsMulti() {
		t.Error("one non-default-named entry must stay Multi")
	}
}

func TestVectorStruct_SparseDefaultStaysMulti(t *testing.T) {
	sv, _ := sparse.New([]uint32{1}, []float32{0.1})
	n := NamedVectorsFrom(DefaultName, NewSparse(sv))
	if !FromNamedVectors(n).IsMulti() {
		t.Error("a sparse default entry cannot collapse to Single")
	}
}

func TestVectorStruct_GetOnSingle(t *testing.T) {
	s := SingleStruct([]float32{1, 2})

	ref, ok := s.Get(DefaultName)
	if !ok || ref.Len() != 2 {
		t.Errorf("Get(default) = %v, %v", ref, ok)
	}
	if _, ok := s.Get("image"); ok {
		t.Error("Single must only resolve the default name")
	}
}

func TestVectorStruct_Emptiness(t *testing.T) {
	if !SingleStruct(nil).IsEmpty() {
		t.Error("empty Single must be empty")
	}
	if SingleStruct([]float32{1}).IsEmpty() {
		t.Error("non-empty Single must not be empty")
	}

	allEmpty := MultiStruct(map[string]Vector{
		"a": NewDense(nil),
		"b": NewSparse(sparse.Vector{}),
	})
	if !allEmpty.IsEmpty() {
		t.Error("Multi with only empty entries must be empty")
	}

	mixed := MultiStruct(map[string]Vector{
		"a": NewDense(nil),
		"b": NewDense([]float32{1}),
	})
	if mixed.IsEmpty() {
		t.Error("Multi with one non-empty entry must not be empty")
	}
}

func TestNamedVectorStruct_NameResolution(t *testing.T) {
	if got := DefaultVector([]float32{1}).Name(); got != DefaultName {
		t.Errorf("Default Name() = %q, want default", got)
	}
	if got := NamedDense("image", []float32{1}).Name(); got != "image" {
		t.Errorf("Named Name() = %q", got)
	}
	// A carried empty string is returned verbatim.
	sv, _ := sparse.New([]uint32{1}, []float32{0.1})
	if got := NamedSparse("", sv).Name(); got != "" {
		t.Errorf("Sparse Name() = %q, want empty", got)
	}
}

func TestNamedVectorStruct_VectorBorrowsAndOwns(t *testing.T) {
	s := NamedDense("a", []float32{1, 2})

	ref := s.Vector()
	if ref.Kind() != KindDense || ref.Len() != 2 {
		t.Errorf("Vector() = kind %v len %d", ref.Kind(), ref.Len())
	}

	owned := s.IntoVector()
	d, err := owned.AsDense()
	if err != nil || len(d) != 2 {
		t.Errorf("IntoVector() = %v, %v", d, err)
	}
}

func TestNamedVectorStruct_SparseValidation(t *testing.T) {
	bad := sparse.Vector{Indices: []uint32{3, 1}, Values: []float32{0.3, 0.1}}
	err := NamedSparse("s", bad).Validate()
	if err == nil {
		t.Fatal("expected validation error from the sparse contract")
	}
	var verr *sparse.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("error = %T, want *sparse.ValidationError", err)
	}

	if err := NamedDense("d", nil).Validate(); err != nil {
		t.Errorf("dense variants have no shape constraint here, got %v", err)
	}
}

func TestBatchVectorStruct_Transpose(t *testing.T) {
	b := MultiBatch(map[string][]Vector{
		"image": {NewDense([]float32{1}), NewDense([]float32{2}), NewDense([]float32{3})},
		"text":  {NewDense([]float32{10}), NewDense([]float32{20}), NewDense([]float32{30})},
	})

	if err := b.CheckAligned(3); err != nil {
		t.Fatalf("CheckAligned: %v", err)
	}

	all := b.IntoAllVectors(3)
	if len(all) != 3 {
		t.Fatalf("got %d collections, want 3", len(all))
	}
	for i, n := range all {
		if n.Len() != 2 {
			t.Fatalf("collection %d has %d names, want 2", i, n.Len())
		}
		img, _ := n.Get("image")
		d, _ := img.AsDense()
		if d[0] != float32(i+1) {
			t.Errorf("collections[%d][image] = %v", i, d)
		}
		txt, _ := n.Get("text")
		d, _ = txt.AsDense()
		if d[0] != float32((i+1)*10) {
			t.Errorf("collections[%d][text] = %v", i, d)
		}
	}
}

func TestBatchVectorStruct_EmptyMultiPolicy(t *testing.T) {
	all := MultiBatch(nil).IntoAllVectors(4)
	if len(all) != 4 {
		t.Fatalf("got %d collections, want 4", len(all))
	}
	for i, n := range all {
		if n.Len() != 0 {
			t.Errorf("collection %d not empty: %v", i, n.Names())
		}
	}
}

func TestBatchVectorStruct_SingleOrderPreserved(t *testing.T) {
	b := SingleBatch([][]float32{{1}, {2}})
	all := b.IntoAllVectors(2)

	if len(all) != 2 {
		t.Fatalf("got %d collections, want 2", len(all))
	}
	for i, n := range all {
		v, ok := n.Get(DefaultName)
		if !ok {
			t.Fatalf("collection %d missing default vector", i)
		}
		d, _ := v.AsDense()
		if d[0] != float32(i+1) {
			t.Errorf("collections[%d] = %v, order not preserved", i, d)
		}
	}
}

func TestBatchVectorStruct_CheckAligned(t *testing.T) {
	b := MultiBatch(map[string][]Vector{
		"a": {NewDense([]float32{1})},
	})
	if err := b.CheckAligned(2); !errors.Is(err, domain.ErrBatchLengthMismatch) {
		t.Errorf("CheckAligned = %v, want ErrBatchLengthMismatch", err)
	}

	s := SingleBatch([][]float32{{1}})
	if err := s.CheckAligned(3); !errors.Is(err, domain.ErrBatchLengthMismatch) {
		t.Errorf("single CheckAligned = %v, want ErrBatchLengthMismatch", err)
	}
}
