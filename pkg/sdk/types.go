package vecstore

// Point is an untyped point for the low-level API. Exactly one vector
// shape should be set: Vector for the unnamed dense vector, or any
// combination of Vectors and SparseVectors for named fields.
type Point struct {
	ID            string
	Vector        []float32
	Vectors       map[string][]float32
	SparseVectors map[string]SparseVector
	Payload       map[string]any
}

// SparseVector holds (index, value) pairs for non-zero dimensions.
// Indices must be strictly ascending.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// ScoredPoint is a single query hit.
type ScoredPoint struct {
	ID    string
	Score float32
}

// FieldType defines the payload schema type of an indexed field.
type FieldType string

// Field type constants.
const (
	FieldKeyword FieldType = "keyword"
	FieldInteger FieldType = "integer"
	FieldFloat   FieldType = "float"
	FieldGeo     FieldType = "geo"
	FieldText    FieldType = "text"
)

// TextIndexOptions are the parameters of a full-text field index.
type TextIndexOptions struct {
	Tokenizer   string
	MinTokenLen *int
	MaxTokenLen *int
	Lowercase   *bool
}

// FilterExpression is a set of must/should/must_not filter conditions.
type FilterExpression struct {
	Must    []FilterCondition
	Should  []FilterCondition
	MustNot []FilterCondition
}

// FilterCondition is a single filter clause: a tag match or a numeric
// range, never both.
type FilterCondition struct {
	Key   string
	Match string       // non-empty for tag match
	Range *RangeFilter // non-nil for numeric range
}

// RangeFilter defines numeric range boundaries.
type RangeFilter struct {
	GT  *float64
	GTE *float64
	LT  *float64
	LTE *float64
}
