package vector

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/sparse"
)

// The wire variants are untagged: the shape of the payload, not a tag
// field, picks the variant. Probe order for objects is fixed so that
// ambiguous payloads resolve deterministically: the sparse shape is
// chosen only when an "indices" key is present, otherwise named-dense.

func firstByte(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// MarshalJSON encodes a dense vector as a bare array and a sparse one as
// an indices/values object.
func (v Vector) MarshalJSON() ([]byte, error) {
	if v.kind == KindSparse {
		return json.Marshal(v.sparse)
	}
	if v.dense == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.dense)
}

// UnmarshalJSON decodes by shape: array for dense, indices/values object
// for sparse.
func (v *Vector) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '[':
		var dense []float32
		if err := json.Unmarshal(data, &dense); err != nil {
			return fmt.Errorf("decode dense vector: %w: %w", domain.ErrMalformedRequest, err)
		}
		*v = NewDense(dense)
		return nil
	case '{':
		var probe struct {
			Indices *json.RawMessage `json:"indices"`
		}
		if err := json.Unmarshal(data, &probe); err != nil || probe.Indices == nil {
			return fmt.Errorf("vector object must carry indices/values: %w", domain.ErrMalformedRequest)
		}
		var sv sparse.Vector
		if err := json.Unmarshal(data, &sv); err != nil {
			return fmt.Errorf("decode sparse vector: %w: %w", domain.ErrMalformedRequest, err)
		}
		*v = NewSparse(sv)
		return nil
	default:
		return fmt.Errorf("vector must be an array or an indices/values object: %w", domain.ErrMalformedRequest)
	}
}

// MarshalJSON encodes Single as a bare array and Multi as a name to
// vector object.
func (s VectorStruct) MarshalJSON() ([]byte, error) {
	if !s.multi {
		if s.single == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.single)
	}
	return json.Marshal(s.named)
}

// UnmarshalJSON decodes by shape: a bare array is Single, an object is
// Multi.
func (s *VectorStruct) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '[':
		var single []float32
		if err := json.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("decode single vector: %w: %w", domain.ErrMalformedRequest, err)
		}
		*s = SingleStruct(single)
		return nil
	case '{':
		var named map[string]Vector
		if err := json.Unmarshal(data, &named); err != nil {
			return fmt.Errorf("decode named vectors: %w: %w", domain.ErrMalformedRequest, err)
		}
		*s = MultiStruct(named)
		return nil
	default:
		return fmt.Errorf("vectors must be an array or a name/vector object: %w", domain.ErrMalformedRequest)
	}
}

// namedVectorWire is the named dense/sparse wire envelope.
type namedVectorWire struct {
	Name   string          `json:"name"`
	Vector json.RawMessage `json:"vector"`
}

// MarshalJSON encodes Default as a bare array and the named variants as
// a name/vector object.
func (s NamedVectorStruct) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case NamedKindDefault:
		if s.dense == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(s.dense)
	case NamedKindSparse:
		raw, err := json.Marshal(s.sparse)
		if err != nil {
			return nil, err
		}
		return json.Marshal(namedVectorWire{Name: s.name, Vector: raw})
	default:
		raw, err := json.Marshal(s.dense)
		if err != nil {
			return nil, err
		}
		return json.Marshal(namedVectorWire{Name: s.name, Vector: raw})
	}
}

// UnmarshalJSON decodes by shape: a bare array is Default; an object is
// probed via its nested vector payload, sparse only when "indices" is
// present.
func (s *NamedVectorStruct) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '[':
		var dense []float32
		if err := json.Unmarshal(data, &dense); err != nil {
			return fmt.Errorf("decode default vector: %w: %w", domain.ErrMalformedRequest, err)
		}
		*s = DefaultVector(dense)
		return nil
	case '{':
		var wire namedVectorWire
		if err := json.Unmarshal(data, &wire); err != nil {
			return fmt.Errorf("decode named vector: %w: %w", domain.ErrMalformedRequest, err)
		}
		if wire.Vector == nil {
			return fmt.Errorf("named vector is missing the vector field: %w", domain.ErrMalformedRequest)
		}
		var inner Vector
		if err := inner.UnmarshalJSON(wire.Vector); err != nil {
			return err
		}
		*s = NamedFromVector(wire.Name, inner)
		return nil
	default:
		return fmt.Errorf("query vector must be an array or a name/vector object: %w", domain.ErrMalformedRequest)
	}
}

// MarshalJSON encodes Single as an array of arrays and Multi as a name
// to vector-list object.
func (b BatchVectorStruct) MarshalJSON() ([]byte, error) {
	if !b.multi {
		if b.single == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(b.single)
	}
	return json.Marshal(b.named)
}

// UnmarshalJSON decodes by shape: a bare array is the row-major Single
// batch, an object is the column-major Multi batch.
func (b *BatchVectorStruct) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '[':
		var single [][]float32
		if err := json.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("decode vector batch: %w: %w", domain.ErrMalformedRequest, err)
		}
		*b = SingleBatch(single)
		return nil
	case '{':
		var named map[string][]Vector
		if err := json.Unmarshal(data, &named); err != nil {
			return fmt.Errorf("decode named vector batch: %w: %w", domain.ErrMalformedRequest, err)
		}
		*b = MultiBatch(named)
		return nil
	default:
		return fmt.Errorf("batch vectors must be an array or a name/list object: %w", domain.ErrMalformedRequest)
	}
}
