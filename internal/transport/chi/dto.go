package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/query"
	"github.com/kailas-cloud/vecstore/internal/domain/vector"
	"github.com/kailas-cloud/vecstore/internal/shard"
	pointsuc "github.com/kailas-cloud/vecstore/internal/usecase/points"
)

// ErrorResponseCode is the machine-readable error code of an API error.
type ErrorResponseCode string

// API error codes.
const (
	CodeBadRequest        ErrorResponseCode = "bad_request"
	CodeValidationFailed  ErrorResponseCode = "validation_failed"
	CodePointNotFound     ErrorResponseCode = "point_not_found"
	CodeVectorNotFound    ErrorResponseCode = "vector_not_found"
	CodeNotFound          ErrorResponseCode = "not_found"
	CodeWrongVectorFormat ErrorResponseCode = "wrong_vector_format"
	CodeInternalError     ErrorResponseCode = "internal_error"
)

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// pointWire is the wire shape of a single point.
type pointWire struct {
	ID      dompoint.ID         `json:"id"`
	Vector  vector.VectorStruct `json:"vector"`
	Payload payload.Payload     `json:"payload,omitempty"`
}

func (p pointWire) toDomain() dompoint.Struct {
	return dompoint.Struct{ID: p.ID, Vectors: p.Vector, Payload: p.Payload}
}

func pointToWire(p dompoint.Struct) pointWire {
	return pointWire{ID: p.ID, Vector: p.Vectors, Payload: p.Payload}
}

// batchWire is the column-major wire shape of a point batch.
type batchWire struct {
	IDs      []dompoint.ID            `json:"ids"`
	Vectors  vector.BatchVectorStruct `json:"vectors"`
	Payloads []payload.Payload        `json:"payloads,omitempty"`
}

// upsertRequest carries either a row-major point list or a column-major
// batch; exactly one must be present.
type upsertRequest struct {
	Points []pointWire `json:"points,omitempty"`
	Batch  *batchWire  `json:"batch,omitempty"`
}

func (r upsertRequest) toOperation() (dompoint.InsertOperation, error) {
	if len(r.Points) > 0 && r.Batch != nil {
		return dompoint.InsertOperation{},
			fmt.Errorf("points and batch are mutually exclusive: %w", domain.ErrMalformedRequest)
	}
	if r.Batch != nil {
		return dompoint.InsertOperation{Batch: &dompoint.Batch{
			IDs:      r.Batch.IDs,
			Vectors:  r.Batch.Vectors,
			Payloads: r.Batch.Payloads,
		}}, nil
	}
	if len(r.Points) == 0 {
		return dompoint.InsertOperation{},
			fmt.Errorf("points or batch is required: %w", domain.ErrMalformedRequest)
	}
	pts := make([]dompoint.Struct, len(r.Points))
	for i, p := range r.Points {
		pts[i] = p.toDomain()
	}
	return dompoint.InsertOperation{Points: pts}, nil
}

// syncRequest replaces the local points inside the [from_id, to_id) range.
type syncRequest struct {
	Points []pointWire  `json:"points"`
	FromID *dompoint.ID `json:"from_id,omitempty"`
	ToID   *dompoint.ID `json:"to_id,omitempty"`
}

func (r syncRequest) toOperation() dompoint.SyncOperation {
	pts := make([]dompoint.Struct, len(r.Points))
	for i, p := range r.Points {
		pts[i] = p.toDomain()
	}
	return dompoint.SyncOperation{Points: pts, FromID: r.FromID, ToID: r.ToID}
}

// rangeWire mirrors filter.Range on the wire.
type rangeWire struct {
	GT  *float64 `json:"gt,omitempty"`
	GTE *float64 `json:"gte,omitempty"`
	LT  *float64 `json:"lt,omitempty"`
	LTE *float64 `json:"lte,omitempty"`
}

// conditionWire is one filter clause: a match or a range on a payload key.
type conditionWire struct {
	Key   string     `json:"key"`
	Match *string    `json:"match,omitempty"`
	Range *rangeWire `json:"range,omitempty"`
}

// filterWire is the boolean filter expression on the wire.
type filterWire struct {
	Must    []conditionWire `json:"must,omitempty"`
	Should  []conditionWire `json:"should,omitempty"`
	MustNot []conditionWire `json:"must_not,omitempty"`
}

func (f *filterWire) toDomain() (*filter.Expression, error) {
	if f == nil {
		return nil, nil
	}
	must, err := conditionsToDomain(f.Must)
	if err != nil {
		return nil, err
	}
	should, err := conditionsToDomain(f.Should)
	if err != nil {
		return nil, err
	}
	mustNot, err := conditionsToDomain(f.MustNot)
	if err != nil {
		return nil, err
	}
	expr, err := filter.NewExpression(must, should, mustNot)
	if err != nil {
		return nil, fmt.Errorf("new expression: %w", err)
	}
	return &expr, nil
}

func conditionsToDomain(cs []conditionWire) ([]filter.Condition, error) {
	if len(cs) == 0 {
		return nil, nil
	}
	out := make([]filter.Condition, 0, len(cs))
	for _, c := range cs {
		cond, err := conditionToDomain(c)
		if err != nil {
			return nil, err
		}
		out = append(out, cond)
	}
	return out, nil
}

func conditionToDomain(c conditionWire) (filter.Condition, error) {
	if c.Match != nil && c.Range != nil {
		return filter.Condition{},
			fmt.Errorf("condition for %q must have match or range, not both", c.Key)
	}
	if c.Match != nil {
		cond, err := filter.NewMatch(c.Key, *c.Match)
		if err != nil {
			return filter.Condition{}, fmt.Errorf("match condition: %w", err)
		}
		return cond, nil
	}
	if c.Range != nil {
		rng, err := filter.NewRangeBounds(c.Range.GT, c.Range.GTE, c.Range.LT, c.Range.LTE)
		if err != nil {
			return filter.Condition{}, fmt.Errorf("range bounds: %w", err)
		}
		cond, err := filter.NewRange(c.Key, rng)
		if err != nil {
			return filter.Condition{}, fmt.Errorf("range condition: %w", err)
		}
		return cond, nil
	}
	return filter.Condition{}, errors.New("condition must have either match or range")
}

// selectionRequest targets points by explicit ids or by filter.
type selectionRequest struct {
	Points []dompoint.ID `json:"points,omitempty"`
	Filter *filterWire   `json:"filter,omitempty"`
}

func (r selectionRequest) toSelection() (pointsuc.Selection, error) {
	f, err := r.Filter.toDomain()
	if err != nil {
		return pointsuc.Selection{}, fmt.Errorf("%s: %w", err.Error(), domain.ErrMalformedRequest)
	}
	return pointsuc.Selection{IDs: r.Points, Filter: f}, nil
}

// setPayloadRequest merges a payload into the selected points.
type setPayloadRequest struct {
	Payload payload.Payload `json:"payload"`
	Points  []dompoint.ID   `json:"points,omitempty"`
	Filter  *filterWire     `json:"filter,omitempty"`
}

// deletePayloadRequest removes payload keys from the selected points.
type deletePayloadRequest struct {
	Keys   []string      `json:"keys"`
	Points []dompoint.ID `json:"points,omitempty"`
	Filter *filterWire   `json:"filter,omitempty"`
}

// fieldIndexRequest creates a payload field index.
type fieldIndexRequest struct {
	FieldName   string           `json:"field_name"`
	FieldSchema *fieldSchemaWire `json:"field_schema,omitempty"`
}

// fieldSchemaWire accepts either a bare type string ("keyword") or a
// full schema object with parameters.
type fieldSchemaWire struct {
	schema shard.FieldSchema
}

func (f *fieldSchemaWire) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var t shard.FieldType
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("field type: %w", err)
		}
		f.schema = shard.FieldSchema{Type: t}
		return nil
	}
	var s shard.FieldSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("field schema: %w", err)
	}
	f.schema = s
	return nil
}

func (f *fieldSchemaWire) MarshalJSON() ([]byte, error) {
	if f.schema.TextParams == nil {
		return json.Marshal(f.schema.Type) //nolint:wrapcheck // plain type shorthand
	}
	return json.Marshal(f.schema) //nolint:wrapcheck // full schema object
}

// queryRequest runs a vector query against the index.
//
// Query accepts the shorthand forms (a bare dense array or sparse
// object means nearest) as well as the explicit variant object.
type queryRequest struct {
	Query json.RawMessage `json:"query"`
	Using string          `json:"using,omitempty"`
	Limit int             `json:"limit,omitempty"`
}

// queryVariantWire is the explicit variant object of a query.
type queryVariantWire struct {
	Nearest   *vector.Vector    `json:"nearest,omitempty"`
	Recommend *recoWire         `json:"recommend,omitempty"`
	Discovery *discoveryWire    `json:"discovery,omitempty"`
	Context   []contextPairWire `json:"context,omitempty"`
}

type recoWire struct {
	Positives []vector.Vector `json:"positives"`
	Negatives []vector.Vector `json:"negatives,omitempty"`
}

type discoveryWire struct {
	Target vector.Vector     `json:"target"`
	Pairs  []contextPairWire `json:"context"`
}

type contextPairWire struct {
	Positive vector.Vector `json:"positive"`
	Negative vector.Vector `json:"negative"`
}

func pairsToDomain(pairs []contextPairWire) []query.ContextPair {
	out := make([]query.ContextPair, len(pairs))
	for i, p := range pairs {
		out[i] = query.ContextPair{Positive: p.Positive, Negative: p.Negative}
	}
	return out
}

func (r queryRequest) toNamedQuery() (query.NamedQuery[query.QueryVector], error) {
	var zero query.NamedQuery[query.QueryVector]
	if len(r.Query) == 0 {
		return zero, fmt.Errorf("query is required: %w", domain.ErrMalformedRequest)
	}

	qv, err := decodeQueryVector(r.Query)
	if err != nil {
		return zero, err
	}
	if r.Using != "" {
		return query.NewNamedQueryUsing(qv, r.Using), nil
	}
	return query.NewNamedQuery(qv), nil
}

// decodeQueryVector tries the vector shorthand first, then the explicit
// variant object.
func decodeQueryVector(raw json.RawMessage) (query.QueryVector, error) {
	var v vector.Vector
	if err := json.Unmarshal(raw, &v); err == nil {
		return query.Nearest(v), nil
	}

	var w queryVariantWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return query.QueryVector{}, fmt.Errorf("decode query: %w", domain.ErrMalformedRequest)
	}
	switch {
	case w.Nearest != nil:
		return query.Nearest(*w.Nearest), nil
	case w.Recommend != nil:
		return query.Recommend(query.RecoQuery{
			Positives: w.Recommend.Positives,
			Negatives: w.Recommend.Negatives,
		}), nil
	case w.Discovery != nil:
		return query.Discovery(query.DiscoveryQuery{
			Target: w.Discovery.Target,
			Pairs:  pairsToDomain(w.Discovery.Pairs),
		}), nil
	case len(w.Context) > 0:
		return query.Context(query.ContextQuery{Pairs: pairsToDomain(w.Context)}), nil
	default:
		return query.QueryVector{}, fmt.Errorf("unknown query variant: %w", domain.ErrMalformedRequest)
	}
}

// scoredPointWire is one query hit on the wire.
type scoredPointWire struct {
	ID    dompoint.ID `json:"id"`
	Score float32     `json:"score"`
}

// queryResponse is the body of a successful query.
type queryResponse struct {
	Result []scoredPointWire `json:"result"`
}

// textUpsertRequest embeds a text and upserts the resulting point.
type textUpsertRequest struct {
	ID      dompoint.ID     `json:"id"`
	Text    string          `json:"text"`
	Payload payload.Payload `json:"payload,omitempty"`
}

// healthResponse reports aggregated component health.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// operationResponse acknowledges a write operation.
type operationResponse struct {
	Status string `json:"status"`
}

func operationStatus(wait bool) operationResponse {
	if wait {
		return operationResponse{Status: "completed"}
	}
	return operationResponse{Status: "acknowledged"}
}

// writeOptionsFromQuery reads wait, ordering and shard_id query params.
func writeOptionsFromQuery(r *http.Request) (pointsuc.WriteOptions, error) {
	var opts pointsuc.WriteOptions

	if v := r.URL.Query().Get("wait"); v != "" {
		wait, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("wait must be a boolean: %w", domain.ErrMalformedRequest)
		}
		opts.Wait = wait
	}

	if v := r.URL.Query().Get("ordering"); v != "" {
		ord := shard.WriteOrdering(v)
		if !ord.IsValid() {
			return opts, fmt.Errorf("unknown write ordering %q: %w", v, domain.ErrMalformedRequest)
		}
		opts.Ordering = &ord
	}

	if v := r.URL.Query().Get("shard_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return opts, fmt.Errorf("shard_id must be an unsigned integer: %w", domain.ErrMalformedRequest)
		}
		id := shard.ID(n)
		opts.ShardID = &id
	}

	return opts, nil
}
