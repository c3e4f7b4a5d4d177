package payload

import "testing"

func TestMerge_OverwritesAndKeepsInputs(t *testing.T) {
	base := Payload{"a": 1, "b": 2}
	patch := Payload{"b": 3, "c": 4}

	merged := base.Merge(patch)
	if merged["a"] != 1 || merged["b"] != 3 || merged["c"] != 4 {
		t.Errorf("merged = %v", merged)
	}
	if base["b"] != 2 {
		t.Error("merge mutated the receiver")
	}
}

func TestWithout(t *testing.T) {
	p := Payload{"a": 1, "b": 2, "c": 3}
	out := p.Without("a", "c")

	if len(out) != 1 || out["b"] != 2 {
		t.Errorf("out = %v", out)
	}
	if len(p) != 3 {
		t.Error("Without mutated the receiver")
	}
}

func TestIsEmpty(t *testing.T) {
	if !(Payload{}).IsEmpty() {
		t.Error("empty payload must report IsEmpty")
	}
	if (Payload{"a": 1}).IsEmpty() {
		t.Error("non-empty payload must not report IsEmpty")
	}
}
