// Package shard holds the internal point-operation messages the
// replication layer forwards between shards, and the conversions that
// build them from collection-level operations.
package shard

import (
	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	"github.com/kailas-cloud/vecstore/internal/domain/point"
)

// ID identifies a shard inside one collection.
type ID = uint32

// WriteOrdering controls the consistency guarantee applied when a
// mutating operation is replicated across shards.
type WriteOrdering string

// Write ordering modes.
const (
	OrderingWeak   WriteOrdering = "weak"
	OrderingMedium WriteOrdering = "medium"
	OrderingStrong WriteOrdering = "strong"
)

// IsValid reports whether the ordering is a known mode.
func (o WriteOrdering) IsValid() bool {
	switch o {
	case OrderingWeak, OrderingMedium, OrderingStrong:
		return true
	}
	return false
}

// Selector chooses which points an operation applies to: an explicit id
// list or a filter expression. When both are logically available the id
// list takes precedence.
type Selector struct {
	IDs    []point.ID         `json:"ids,omitempty"`
	Filter *filter.Expression `json:"filter,omitempty"`
}

// SelectIDs creates an explicit id-list selector.
func SelectIDs(ids []point.ID) Selector {
	return Selector{IDs: ids}
}

// SelectFilter creates a filter-based selector.
func SelectFilter(f filter.Expression) Selector {
	return Selector{Filter: &f}
}

// IsFilter reports whether the selector is filter-based.
func (s Selector) IsFilter() bool { return len(s.IDs) == 0 && s.Filter != nil }

// SyncPoints carries points for shard-to-shard catch-up.
type SyncPoints struct {
	CollectionName string         `json:"collection_name"`
	Wait           bool           `json:"wait"`
	Points         []point.Struct `json:"points"`
	FromID         *point.ID      `json:"from_id,omitempty"`
	ToID           *point.ID      `json:"to_id,omitempty"`
	Ordering       *WriteOrdering `json:"ordering,omitempty"`
}

// SyncPointsInternal targets SyncPoints at one shard.
type SyncPointsInternal struct {
	ShardID    *ID        `json:"shard_id,omitempty"`
	SyncPoints SyncPoints `json:"sync_points"`
}

// UpsertPoints inserts or updates a batch of points.
type UpsertPoints struct {
	CollectionName string         `json:"collection_name"`
	Wait           bool           `json:"wait"`
	Points         []point.Struct `json:"points"`
	Ordering       *WriteOrdering `json:"ordering,omitempty"`
}

// UpsertPointsInternal targets UpsertPoints at one shard.
type UpsertPointsInternal struct {
	ShardID      *ID          `json:"shard_id,omitempty"`
	UpsertPoints UpsertPoints `json:"upsert_points"`
}

// DeletePoints removes the selected points.
type DeletePoints struct {
	CollectionName string         `json:"collection_name"`
	Wait           bool           `json:"wait"`
	Points         Selector       `json:"points"`
	Ordering       *WriteOrdering `json:"ordering,omitempty"`
}

// DeletePointsInternal targets DeletePoints at one shard.
type DeletePointsInternal struct {
	ShardID      *ID          `json:"shard_id,omitempty"`
	DeletePoints DeletePoints `json:"delete_points"`
}

// SetPayloadPoints merges a payload into the selected points.
//
// Points is the deprecated flat id list kept alongside the structured
// selector for backward compatibility; it must stay in sync with it.
type SetPayloadPoints struct {
	CollectionName string          `json:"collection_name"`
	Wait           bool            `json:"wait"`
	Payload        payload.Payload `json:"payload"`
	Points         []point.ID      `json:"points,omitempty"` // Deprecated: use PointsSelector.
	PointsSelector Selector        `json:"points_selector"`
	Ordering       *WriteOrdering  `json:"ordering,omitempty"`
}

// SetPayloadPointsInternal targets SetPayloadPoints at one shard.
type SetPayloadPointsInternal struct {
	ShardID          *ID              `json:"shard_id,omitempty"`
	SetPayloadPoints SetPayloadPoints `json:"set_payload_points"`
}

// DeletePayloadPoints removes payload keys from the selected points.
//
// Points mirrors the deprecated flat id list of SetPayloadPoints.
type DeletePayloadPoints struct {
	CollectionName string         `json:"collection_name"`
	Wait           bool           `json:"wait"`
	Keys           []string       `json:"keys"`
	Points         []point.ID     `json:"points,omitempty"` // Deprecated: use PointsSelector.
	PointsSelector Selector       `json:"points_selector"`
	Ordering       *WriteOrdering `json:"ordering,omitempty"`
}

// DeletePayloadPointsInternal targets DeletePayloadPoints at one shard.
type DeletePayloadPointsInternal struct {
	ShardID             *ID                 `json:"shard_id,omitempty"`
	DeletePayloadPoints DeletePayloadPoints `json:"delete_payload_points"`
}

// ClearPayloadPoints removes all payload from the selected points.
type ClearPayloadPoints struct {
	CollectionName string         `json:"collection_name"`
	Wait           bool           `json:"wait"`
	Points         Selector       `json:"points"`
	Ordering       *WriteOrdering `json:"ordering,omitempty"`
}

// ClearPayloadPointsInternal targets ClearPayloadPoints at one shard.
type ClearPayloadPointsInternal struct {
	ShardID            *ID                `json:"shard_id,omitempty"`
	ClearPayloadPoints ClearPayloadPoints `json:"clear_payload_points"`
}

// FieldType is the payload schema type of an indexed field.
type FieldType string

// Payload field schema types.
const (
	FieldKeyword FieldType = "keyword"
	FieldInteger FieldType = "integer"
	FieldFloat   FieldType = "float"
	FieldGeo     FieldType = "geo"
	FieldText    FieldType = "text"
)

// TextIndexParams are the index parameters of a full-text field. Only
// text fields carry parameters; scalar types carry none.
type TextIndexParams struct {
	Tokenizer   string `json:"tokenizer"`
	MinTokenLen *int   `json:"min_token_len,omitempty"`
	MaxTokenLen *int   `json:"max_token_len,omitempty"`
	Lowercase   *bool  `json:"lowercase,omitempty"`
}

// FieldSchema describes the index to build for one payload field:
// either a bare type or a text type with parameters.
type FieldSchema struct {
	Type       FieldType        `json:"type"`
	TextParams *TextIndexParams `json:"params,omitempty"`
}

// CreateFieldIndex builds a payload field index.
type CreateFieldIndex struct {
	CollectionName string           `json:"collection_name"`
	Wait           bool             `json:"wait"`
	FieldName      string           `json:"field_name"`
	FieldType      *FieldType       `json:"field_type,omitempty"`
	FieldParams    *TextIndexParams `json:"field_index_params,omitempty"`
	Ordering       *WriteOrdering   `json:"ordering,omitempty"`
}

// CreateFieldIndexInternal targets CreateFieldIndex at one shard.
type CreateFieldIndexInternal struct {
	ShardID          *ID              `json:"shard_id,omitempty"`
	CreateFieldIndex CreateFieldIndex `json:"create_field_index"`
}

// DeleteFieldIndex drops a payload field index.
type DeleteFieldIndex struct {
	CollectionName string         `json:"collection_name"`
	Wait           bool           `json:"wait"`
	FieldName      string         `json:"field_name"`
	Ordering       *WriteOrdering `json:"ordering,omitempty"`
}

// DeleteFieldIndexInternal targets DeleteFieldIndex at one shard.
type DeleteFieldIndexInternal struct {
	ShardID          *ID              `json:"shard_id,omitempty"`
	DeleteFieldIndex DeleteFieldIndex `json:"delete_field_index"`
}
