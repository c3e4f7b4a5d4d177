// Package point holds point identity and the point shapes that cross
// the ingestion boundary.
package point

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	"github.com/kailas-cloud/vecstore/internal/domain/vector"
)

// IDKind discriminates the point identifier variant.
type IDKind int

// Point identifier variants.
const (
	IDKindNum IDKind = iota
	IDKindUUID
)

// ID identifies a stored point: either an unsigned integer or a UUID.
// On the wire it is untagged, a JSON number or a UUID string.
type ID struct {
	kind IDKind
	num  uint64
	uid  uuid.UUID
}

// NumID creates a numeric point ID.
func NumID(n uint64) ID {
	return ID{kind: IDKindNum, num: n}
}

// UUIDID creates a UUID point ID.
func UUIDID(u uuid.UUID) ID {
	return ID{kind: IDKindUUID, uid: u}
}

// ParseID parses a textual point ID: decimal number or UUID.
func ParseID(s string) (ID, error) {
	var n uint64
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && fmt.Sprintf("%d", n) == s {
		return NumID(n), nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("point id %q is neither a number nor a UUID: %w", s, domain.ErrMalformedRequest)
	}
	return UUIDID(u), nil
}

// Kind returns the identifier variant.
func (id ID) Kind() IDKind { return id.kind }

// Num returns the numeric identifier.
func (id ID) Num() (uint64, bool) { return id.num, id.kind == IDKindNum }

// UUID returns the UUID identifier.
func (id ID) UUID() (uuid.UUID, bool) { return id.uid, id.kind == IDKindUUID }

// String renders the identifier in its wire form.
func (id ID) String() string {
	if id.kind == IDKindUUID {
		return id.uid.String()
	}
	return fmt.Sprintf("%d", id.num)
}

// Less orders identifiers for from/to id ranges: numeric IDs sort before
// UUIDs, numbers by value, UUIDs lexicographically.
func (id ID) Less(other ID) bool {
	if id.kind != other.kind {
		return id.kind == IDKindNum
	}
	if id.kind == IDKindNum {
		return id.num < other.num
	}
	return id.uid.String() < other.uid.String()
}

// Equal reports identifier equality.
func (id ID) Equal(other ID) bool {
	return id.kind == other.kind && id.num == other.num && id.uid == other.uid
}

// MarshalJSON encodes numeric IDs as numbers and UUIDs as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.kind == IDKindUUID {
		return json.Marshal(id.uid.String())
	}
	return json.Marshal(id.num)
}

// UnmarshalJSON decodes by shape: a number or a UUID string.
func (id *ID) UnmarshalJSON(data []byte) error {
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = NumID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("point id must be a number or a UUID string: %w", domain.ErrMalformedRequest)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("point id %q is not a UUID: %w", s, domain.ErrMalformedRequest)
	}
	*id = UUIDID(u)
	return nil
}

// Struct is one point as exchanged over the wire: identifier, vectors
// and payload.
type Struct struct {
	ID      ID                  `json:"id"`
	Vectors vector.VectorStruct `json:"vector"`
	Payload payload.Payload     `json:"payload,omitempty"`
}

// AllVectors expands the point's vectors into a named collection.
func (p Struct) AllVectors() vector.NamedVectors {
	return p.Vectors.IntoNamedVectors()
}

// Validate checks the point's vectors against their own contracts.
func (p Struct) Validate() error {
	if err := p.Vectors.Validate(); err != nil {
		return fmt.Errorf("point %s: %w", p.ID, err)
	}
	return nil
}

// Batch is the column-major bulk shape: ids, batched vectors and
// optional per-point payloads, aligned by position.
type Batch struct {
	IDs      []ID                     `json:"ids"`
	Vectors  vector.BatchVectorStruct `json:"vectors"`
	Payloads []payload.Payload        `json:"payloads,omitempty"`
}

// Validate checks positional alignment and each vector's own contract.
func (b Batch) Validate() error {
	if err := b.Vectors.CheckAligned(len(b.IDs)); err != nil {
		return err
	}
	if b.Payloads != nil && len(b.Payloads) != len(b.IDs) {
		return fmt.Errorf("%d payloads for %d points: %w",
			len(b.Payloads), len(b.IDs), domain.ErrBatchLengthMismatch)
	}
	return b.Vectors.Validate()
}

// IntoPoints transposes the batch into row-major points.
func (b Batch) IntoPoints() ([]Struct, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	all := b.Vectors.IntoAllVectors(len(b.IDs))
	points := make([]Struct, len(b.IDs))
	for i, id := range b.IDs {
		p := Struct{ID: id, Vectors: vector.FromNamedVectors(all[i])}
		if b.Payloads != nil {
			p.Payload = b.Payloads[i]
		}
		points[i] = p
	}
	return points, nil
}

// InsertOperation is either a row-major point list or a column-major
// batch.
type InsertOperation struct {
	Points []Struct `json:"points,omitempty"`
	Batch  *Batch   `json:"batch,omitempty"`
}

// IntoPoints flattens the operation into row-major points, transposing
// the batch form when present.
func (op InsertOperation) IntoPoints() ([]Struct, error) {
	if op.Batch != nil {
		return op.Batch.IntoPoints()
	}
	for _, p := range op.Points {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return op.Points, nil
}

// SyncOperation carries points for shard-to-shard catch-up together with
// the optional id range they replace.
type SyncOperation struct {
	Points []Struct `json:"points"`
	FromID *ID      `json:"from_id,omitempty"`
	ToID   *ID      `json:"to_id,omitempty"`
}
