package redis

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/kailas-cloud/vecstore/internal/domain/filter"
)

func mustMatch(t *testing.T, key, value string) filter.Condition {
	t.Helper()
	c, err := filter.NewMatch(key, value)
	if err != nil {
		t.Fatalf("match condition: %v", err)
	}
	return c
}

func mustRange(t *testing.T, key string, gt, gte, lt, lte *float64) filter.Condition {
	t.Helper()
	r, err := filter.NewRangeBounds(gt, gte, lt, lte)
	if err != nil {
		t.Fatalf("range bounds: %v", err)
	}
	c, err := filter.NewRange(key, r)
	if err != nil {
		t.Fatalf("range condition: %v", err)
	}
	return c
}

func f64(v float64) *float64 { return &v }

func TestBuildFilter_Empty(t *testing.T) {
	if got := buildFilter(filter.Expression{}); got != "" {
		t.Errorf("empty filter = %q, want \"\"", got)
	}
}

func TestBuildFilter_MustTag(t *testing.T) {
	expr, err := filter.NewExpression(
		[]filter.Condition{mustMatch(t, "color", "red")}, nil, nil)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}

	if got := buildFilter(expr); got != "@color:{red}" {
		t.Errorf("filter = %q, want @color:{red}", got)
	}
}

func TestBuildFilter_TagEscaping(t *testing.T) {
	expr, err := filter.NewExpression(
		[]filter.Condition{mustMatch(t, "tag", "a-b c")}, nil, nil)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}

	want := `@tag:{a\-b\ c}`
	if got := buildFilter(expr); got != want {
		t.Errorf("filter = %q, want %q", got, want)
	}
}

func TestBuildFilter_NumericRange(t *testing.T) {
	tests := []struct {
		name string
		cond filter.Condition
		want string
	}{
		{"gte_lte", mustRange(t, "price", nil, f64(10), nil, f64(20)), "@price:[10 20]"},
		{"gt", mustRange(t, "price", f64(5), nil, nil, nil), "@price:[(5 +inf]"},
		{"lt", mustRange(t, "price", nil, nil, f64(7), nil), "@price:[-inf (7]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := filter.NewExpression([]filter.Condition{tc.cond}, nil, nil)
			if err != nil {
				t.Fatalf("expression: %v", err)
			}
			if got := buildFilter(expr); got != tc.want {
				t.Errorf("filter = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildFilter_ShouldGroupAndMustNot(t *testing.T) {
	expr, err := filter.NewExpression(
		[]filter.Condition{mustMatch(t, "color", "red")},
		[]filter.Condition{mustMatch(t, "size", "xl"), mustMatch(t, "size", "l")},
		[]filter.Condition{mustMatch(t, "state", "archived")},
	)
	if err != nil {
		t.Fatalf("expression: %v", err)
	}

	want := "@color:{red} (@size:{xl} | @size:{l}) -@state:{archived}"
	if got := buildFilter(expr); got != want {
		t.Errorf("filter = %q, want %q", got, want)
	}
}

func TestVectorBlob_LittleEndian(t *testing.T) {
	blob := vectorBlob([]float32{1.5, -2.25})
	if len(blob) != 8 {
		t.Fatalf("blob length = %d, want 8", len(blob))
	}

	first := math.Float32frombits(binary.LittleEndian.Uint32([]byte(blob)[:4]))
	second := math.Float32frombits(binary.LittleEndian.Uint32([]byte(blob)[4:]))
	if first != 1.5 || second != -2.25 {
		t.Errorf("decoded = %f, %f; want 1.5, -2.25", first, second)
	}
}
