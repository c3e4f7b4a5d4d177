package shard

import (
	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	"github.com/kailas-cloud/vecstore/internal/domain/payload"
	"github.com/kailas-cloud/vecstore/internal/domain/point"
)

// SetPayloadOperation is a payload merge with its target selection: an
// explicit id list, or a filter when no ids are supplied.
type SetPayloadOperation struct {
	Payload payload.Payload
	Points  []point.ID
	Filter  *filter.Expression
}

// DeletePayloadOperation removes payload keys from the selected points.
type DeletePayloadOperation struct {
	Keys   []string
	Points []point.ID
	Filter *filter.Expression
}

// InternalSyncPoints builds the shard sync message.
func InternalSyncPoints(
	shardID *ID,
	collectionName string,
	op point.SyncOperation,
	wait bool,
	ordering *WriteOrdering,
) (SyncPointsInternal, error) {
	for _, p := range op.Points {
		if err := p.Validate(); err != nil {
			return SyncPointsInternal{}, err
		}
	}
	return SyncPointsInternal{
		ShardID: shardID,
		SyncPoints: SyncPoints{
			CollectionName: collectionName,
			Wait:           wait,
			Points:         op.Points,
			FromID:         op.FromID,
			ToID:           op.ToID,
			Ordering:       ordering,
		},
	}, nil
}

// InternalUpsertPoints builds the shard upsert message, transposing the
// batch form into row-major points when needed.
func InternalUpsertPoints(
	shardID *ID,
	collectionName string,
	op point.InsertOperation,
	wait bool,
	ordering *WriteOrdering,
) (UpsertPointsInternal, error) {
	points, err := op.IntoPoints()
	if err != nil {
		return UpsertPointsInternal{}, err
	}
	return UpsertPointsInternal{
		ShardID: shardID,
		UpsertPoints: UpsertPoints{
			CollectionName: collectionName,
			Wait:           wait,
			Points:         points,
			Ordering:       ordering,
		},
	}, nil
}

// InternalDeletePoints builds a delete message for an explicit id list.
func InternalDeletePoints(
	shardID *ID,
	collectionName string,
	ids []point.ID,
	wait bool,
	ordering *WriteOrdering,
) DeletePointsInternal {
	return DeletePointsInternal{
		ShardID: shardID,
		DeletePoints: DeletePoints{
			CollectionName: collectionName,
			Wait:           wait,
			Points:         SelectIDs(ids),
			Ordering:       ordering,
		},
	}
}

// InternalDeletePointsByFilter builds a delete message for a filter
// selection.
func InternalDeletePointsByFilter(
	shardID *ID,
	collectionName string,
	f filter.Expression,
	wait bool,
	ordering *WriteOrdering,
) DeletePointsInternal {
	return DeletePointsInternal{
		ShardID: shardID,
		DeletePoints: DeletePoints{
			CollectionName: collectionName,
			Wait:           wait,
			Points:         SelectFilter(f),
			Ordering:       ordering,
		},
	}
}

// selectorFor applies the selector precedence rule: an explicit id list
// wins; the filter form is used only when no ids are supplied. The
// returned flat list feeds the deprecated Points fields and always
// matches the structured selector.
func selectorFor(ids []point.ID, f *filter.Expression) (Selector, []point.ID) {
	if len(ids) > 0 {
		return SelectIDs(ids), ids
	}
	if f != nil {
		return SelectFilter(*f), nil
	}
	return Selector{}, nil
}

// InternalSetPayload builds the payload merge message.
func InternalSetPayload(
	shardID *ID,
	collectionName string,
	op SetPayloadOperation,
	wait bool,
	ordering *WriteOrdering,
) SetPayloadPointsInternal {
	selector, flat := selectorFor(op.Points, op.Filter)
	return SetPayloadPointsInternal{
		ShardID: shardID,
		SetPayloadPoints: SetPayloadPoints{
			CollectionName: collectionName,
			Wait:           wait,
			Payload:        op.Payload,
			Points:         flat,
			PointsSelector: selector,
			Ordering:       ordering,
		},
	}
}

// InternalDeletePayload builds the payload key removal message.
func InternalDeletePayload(
	shardID *ID,
	collectionName string,
	op DeletePayloadOperation,
	wait bool,
	ordering *WriteOrdering,
) DeletePayloadPointsInternal {
	selector, flat := selectorFor(op.Points, op.Filter)
	return DeletePayloadPointsInternal{
		ShardID: shardID,
		DeletePayloadPoints: DeletePayloadPoints{
			CollectionName: collectionName,
			Wait:           wait,
			Keys:           op.Keys,
			Points:         flat,
			PointsSelector: selector,
			Ordering:       ordering,
		},
	}
}

// InternalClearPayload builds the payload clear message for an explicit
// id list.
func InternalClearPayload(
	shardID *ID,
	collectionName string,
	ids []point.ID,
	wait bool,
	ordering *WriteOrdering,
) ClearPayloadPointsInternal {
	return ClearPayloadPointsInternal{
		ShardID: shardID,
		ClearPayloadPoints: ClearPayloadPoints{
			CollectionName: collectionName,
			Wait:           wait,
			Points:         SelectIDs(ids),
			Ordering:       ordering,
		},
	}
}

// InternalClearPayloadByFilter builds the payload clear message for a
// filter selection.
func InternalClearPayloadByFilter(
	shardID *ID,
	collectionName string,
	f filter.Expression,
	wait bool,
	ordering *WriteOrdering,
) ClearPayloadPointsInternal {
	return ClearPayloadPointsInternal{
		ShardID: shardID,
		ClearPayloadPoints: ClearPayloadPoints{
			CollectionName: collectionName,
			Wait:           wait,
			Points:         SelectFilter(f),
			Ordering:       ordering,
		},
	}
}

// InternalCreateIndex builds the field index creation message. Only the
// text type carries index parameters.
func InternalCreateIndex(
	shardID *ID,
	collectionName string,
	fieldName string,
	schema *FieldSchema,
	wait bool,
	ordering *WriteOrdering,
) CreateFieldIndexInternal {
	var fieldType *FieldType
	var fieldParams *TextIndexParams
	if schema != nil {
		t := schema.Type
		fieldType = &t
		if schema.Type == FieldText {
			fieldParams = schema.TextParams
		}
	}
	return CreateFieldIndexInternal{
		ShardID: shardID,
		CreateFieldIndex: CreateFieldIndex{
			CollectionName: collectionName,
			Wait:           wait,
			FieldName:      fieldName,
			FieldType:      fieldType,
			FieldParams:    fieldParams,
			Ordering:       ordering,
		},
	}
}

// InternalDeleteIndex builds the field index removal message.
func InternalDeleteIndex(
	shardID *ID,
	collectionName string,
	fieldName string,
	wait bool,
	ordering *WriteOrdering,
) DeleteFieldIndexInternal {
	return DeleteFieldIndexInternal{
		ShardID: shardID,
		DeleteFieldIndex: DeleteFieldIndex{
			CollectionName: collectionName,
			Wait:           wait,
			FieldName:      fieldName,
			Ordering:       ordering,
		},
	}
}
