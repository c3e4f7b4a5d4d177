package search

import (
	"context"

	"github.com/kailas-cloud/vecstore/internal/db"
)

// mockSearcher records the last KNN query and returns canned results.
type mockSearcher struct {
	lastQuery *db.KNNQuery
	result    *db.SearchResult
	err       error
}

func (m *mockSearcher) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &db.SearchResult{}, nil
	}
	return m.result, nil
}
