package vecstore

import (
	"fmt"

	"github.com/kailas-cloud/vecstore/internal/domain"
	"github.com/kailas-cloud/vecstore/internal/domain/filter"
	dompoint "github.com/kailas-cloud/vecstore/internal/domain/point"
	"github.com/kailas-cloud/vecstore/internal/domain/vector"
	"github.com/kailas-cloud/vecstore/internal/shard"
	"github.com/kailas-cloud/vecstore/internal/sparse"
	pointsuc "github.com/kailas-cloud/vecstore/internal/usecase/points"
)

func toInternalID(id string) (dompoint.ID, error) {
	return dompoint.ParseID(id)
}

func toInternalPoint(p Point) (dompoint.Struct, error) {
	id, err := toInternalID(p.ID)
	if err != nil {
		return dompoint.Struct{}, err
	}

	hasNamed := len(p.Vectors) > 0 || len(p.SparseVectors) > 0
	if p.Vector != nil && hasNamed {
		return dompoint.Struct{}, fmt.Errorf(
			"point %q mixes the unnamed vector with named fields: %w", p.ID, domain.ErrMalformedRequest)
	}

	var vs vector.VectorStruct
	if hasNamed {
		named := make(map[string]vector.Vector, len(p.Vectors)+len(p.SparseVectors))
		for name, v := range p.Vectors {
			named[name] = vector.NewDense(v)
		}
		for name, sv := range p.SparseVectors {
			named[name] = vector.NewSparse(sparse.Vector{Indices: sv.Indices, Values: sv.Values})
		}
		vs = vector.MultiStruct(named)
	} else {
		vs = vector.SingleStruct(p.Vector)
	}

	return dompoint.Struct{ID: id, Vectors: vs, Payload: p.Payload}, nil
}

func fromInternalPoint(p dompoint.Struct) Point {
	out := Point{ID: p.ID.String(), Payload: p.Payload}

	if !p.Vectors.IsMulti() {
		out.Vector, _ = p.Vectors.Single()
		return out
	}

	named, _ := p.Vectors.Multi()
	for name, v := range named {
		if sv, err := v.AsSparse(); err == nil {
			if out.SparseVectors == nil {
				out.SparseVectors = make(map[string]SparseVector)
			}
			out.SparseVectors[name] = SparseVector{Indices: sv.Indices, Values: sv.Values}
			continue
		}
		dense, _ := v.AsDense()
		if out.Vectors == nil {
			out.Vectors = make(map[string][]float32)
		}
		out.Vectors[name] = dense
	}
	return out
}

func toInternalFilter(f FilterExpression) (filter.Expression, error) {
	must, err := toInternalConditions(f.Must)
	if err != nil {
		return filter.Expression{}, err
	}
	should, err := toInternalConditions(f.Should)
	if err != nil {
		return filter.Expression{}, err
	}
	mustNot, err := toInternalConditions(f.MustNot)
	if err != nil {
		return filter.Expression{}, err
	}
	return filter.NewExpression(must, should, mustNot)
}

func toInternalConditions(conds []FilterCondition) ([]filter.Condition, error) {
	if len(conds) == 0 {
		return nil, nil
	}
	out := make([]filter.Condition, len(conds))
	for i, c := range conds {
		var err error
		if c.Range != nil {
			var r filter.Range
			r, err = filter.NewRangeBounds(c.Range.GT, c.Range.GTE, c.Range.LT, c.Range.LTE)
			if err != nil {
				return nil, fmt.Errorf("condition %q: %w", c.Key, err)
			}
			out[i], err = filter.NewRange(c.Key, r)
		} else {
			out[i], err = filter.NewMatch(c.Key, c.Match)
		}
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", c.Key, err)
		}
	}
	return out, nil
}

func toInternalSelection(ids []string, f *FilterExpression) (pointsuc.Selection, error) {
	var sel pointsuc.Selection

	for _, id := range ids {
		pid, err := toInternalID(id)
		if err != nil {
			return pointsuc.Selection{}, err
		}
		sel.IDs = append(sel.IDs, pid)
	}

	if f != nil {
		expr, err := toInternalFilter(*f)
		if err != nil {
			return pointsuc.Selection{}, err
		}
		sel.Filter = &expr
	}
	return sel, nil
}

func toInternalFieldSchema(ft FieldType, text *TextIndexOptions) *shard.FieldSchema {
	schema := &shard.FieldSchema{Type: shard.FieldType(ft)}
	if text != nil {
		schema.TextParams = &shard.TextIndexParams{
			Tokenizer:   text.Tokenizer,
			MinTokenLen: text.MinTokenLen,
			MaxTokenLen: text.MaxTokenLen,
			Lowercase:   text.Lowercase,
		}
	}
	return schema
}

func fromScoredPoints(hits []pointsuc.ScoredPoint) []ScoredPoint {
	out := make([]ScoredPoint, len(hits))
	for i, h := range hits {
		out[i] = ScoredPoint{ID: h.ID.String(), Score: h.Score}
	}
	return out
}
