// Package vecstore provides an embedded Go client for the vecstore
// point store backed by Valkey or Redis with search modules.
//
// The client talks to the database directly, without the HTTP layer:
//
//	client, _ := vecstore.New(ctx, vecstore.WithValkey("localhost:6379", ""))
//	defer client.Close()
//
//	points := client.Points("docs")
//	_ = points.Upsert(ctx, vecstore.Point{
//	    ID:      "42",
//	    Vector:  []float32{0.1, 0.2, 0.3},
//	    Payload: map[string]any{"lang": "go"},
//	})
//	hits, _ := points.Query().Nearest([]float32{0.1, 0.2, 0.3}).Limit(10).Do(ctx)
package vecstore
