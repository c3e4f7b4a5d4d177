package point

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/vector"
	"github.com/kailas-cloud/vecstore/internal/sparse"
)

// Hash field layout: dense vectors as binary float32 under __vec:<name>,
// sparse vectors as JSON under __sparse:<name>, payload as JSON under
// __payload. Field names never collide with vector names because of the
// reserved __ prefix.
const (
	denseFieldPrefix  = "__vec:"
	sparseFieldPrefix = "__sparse:"
	payloadField      = "__payload"
)

// buildHashFields converts a point into a flat map[string]string for HSET.
func buildHashFields(p *dompoint.Struct) (map[string]string, error) {
	vectors := p.AllVectors()
	m := make(map[string]string, vectors.Len()+1)

	for _, name := range vectors.Names() {
		v, _ := vectors.Get(name)
		if dense, err := v.AsDense(); err == nil {
			m[denseFieldPrefix+name] = vectorToBytes(dense)
			continue
		}
		sv, _ := v.AsSparse()
		data, err := json.Marshal(sv)
		if err != nil {
			return nil, fmt.Errorf("marshal sparse vector %q: %w", name, err)
		}
		m[sparseFieldPrefix+name] = string(data)
	}

	if len(p.Payload) > 0 {
		data, err := json.Marshal(p.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		m[payloadField] = string(data)
	}

	return m, nil
}

// parseHashFields converts a flat hash map back into a point.
func parseHashFields(id dompoint.ID, m map[string]string) (dompoint.Struct, error) {
	vectors := vector.NewNamedVectors()
	var pl payload.Payload

	for k, v := range m {
		switch {
		case strings.HasPrefix(k, denseFieldPrefix):
			name := strings.TrimPrefix(k, denseFieldPrefix)
			dense, err := bytesToVector(v)
			if err != nil {
				return dompoint.Struct{}, fmt.Errorf("point %s vector %q: %w", id, name, err)
			}
			vectors.Insert(name, vector.NewDense(dense))
		case strings.HasPrefix(k, sparseFieldPrefix):
			name := strings.TrimPrefix(k, sparseFieldPrefix)
			var sv sparse.Vector
			if err := json.Unmarshal([]byte(v), &sv); err != nil {
				return dompoint.Struct{}, fmt.Errorf("point %s sparse vector %q: %w", id, name, err)
			}
			vectors.Insert(name, vector.NewSparse(sv))
		case k == payloadField:
			if err := json.Unmarshal([]byte(v), &pl); err != nil {
				return dompoint.Struct{}, fmt.Errorf("point %s payload: %w", id, err)
			}
		}
	}

	return dompoint.Struct{
		ID:      id,
		Vectors: vector.FromNamedVectors(vectors),
		Payload: pl,
	}, nil
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) ([]float32, error) {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("dense vector payload of %d bytes: %w", len(b), domain.ErrMalformedRequest)
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
