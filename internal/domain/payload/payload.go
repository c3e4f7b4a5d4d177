// Package payload holds the free-form metadata attached to a point.
package payload

// Payload is the key to value metadata of one point.
type Payload map[string]any

// Merge returns a copy of p with other's keys merged in, overwriting on
// duplicate key. Neither input is mutated.
func (p Payload) Merge(other Payload) Payload {
	out := make(Payload, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Without returns a copy of p with the given keys removed.
func (p Payload) Without(keys ...string) Payload {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}
	out := make(Payload, len(p))
	for k, v := range p {
		if !drop[k] {
			out[k] = v
		}
	}
	return out
}

// Keys returns the payload keys, in no particular order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}

// IsEmpty reports whether the payload holds no keys.
func (p Payload) IsEmpty() bool { return len(p) == 0 }
