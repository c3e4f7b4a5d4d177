package vector

// NamedVectors holds all vector fields of one stored point, keyed by
// field name. Names are unique; a missing name is a lookup miss, not an
// empty vector. Order is irrelevant.
type NamedVectors struct {
	vectors map[string]Vector
}

// NewNamedVectors creates an empty collection.
func NewNamedVectors() NamedVectors {
	return NamedVectors{vectors: make(map[string]Vector)}
}

// NamedVectorsFrom creates a collection holding a single (name, vector)
// pair.
func NamedVectorsFrom(name string, v Vector) NamedVectors {
	return NamedVectors{vectors: map[string]Vector{name: v}}
}

// OnlyDefault creates a collection holding one dense vector under the
// default name.
func OnlyDefault(v []float32) NamedVectors {
	return NamedVectorsFrom(DefaultName, NewDense(v))
}

// NamedVectorsFromMap takes ownership of a name to vector map.
func NamedVectorsFromMap(m map[string]Vector) NamedVectors {
	if m == nil {
		m = make(map[string]Vector)
	}
	return NamedVectors{vectors: m}
}

// Get returns the vector stored under name.
func (n NamedVectors) Get(name string) (Vector, bool) {
	v, ok := n.vectors[name]
	return v, ok
}

// GetRef returns a borrowed view of the vector stored under name.
func (n NamedVectors) GetRef(name string) (Ref, bool) {
	v, ok := n.vectors[name]
	if !ok {
		return Ref{}, false
	}
	return v.Ref(), true
}

// Insert stores a vector under name, overwriting any previous entry.
func (n *NamedVectors) Insert(name string, v Vector) {
	if n.vectors == nil {
		n.vectors = make(map[string]Vector)
	}
	n.vectors[name] = v
}

// Contains reports whether name is present.
func (n NamedVectors) Contains(name string) bool {
	_, ok := n.vectors[name]
	return ok
}

// Len returns the number of vector fields.
func (n NamedVectors) Len() int { return len(n.vectors) }

// Names returns the field names, in no particular order.
func (n NamedVectors) Names() []string {
	names := make([]string, 0, len(n.vectors))
	for name := range n.vectors {
		names = append(names, name)
	}
	return names
}

// IntoMap flattens the collection into an owned name to vector map.
func (n NamedVectors) IntoMap() map[string]Vector {
	if n.vectors == nil {
		return make(map[string]Vector)
	}
	return n.vectors
}

// Validate checks every contained vector.
func (n NamedVectors) Validate() error {
	for _, v := range n.vectors {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy for crossing shard/wire boundaries.
func (n NamedVectors) Clone() NamedVectors {
	c := make(map[string]Vector, len(n.vectors))
	for name, v := range n.vectors {
		c[name] = v.Clone()
	}
	return NamedVectors{vectors: c}
}

// Equal reports structural equality of two collections.
func (n NamedVectors) Equal(other NamedVectors) bool {
	if len(n.vectors) != len(other.vectors) {
		return false
	}
	for name, v := range n.vectors {
		ov, ok := other.vectors[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
