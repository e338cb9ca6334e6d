package scheme

import "fmt"

// Registry is an ordered list of schemes. The order is load-bearing:
// every per-thread-count artifact (data files, merged columns, plot
// legends) lists schemes in registry order, and nothing downstream
// re-derives the order from file names.
type Registry struct {
	schemes []Scheme
}

// NewRegistry builds a registry from an explicit scheme order.
// Duplicate IDs are rejected.
func NewRegistry(schemes ...Scheme) (Registry, error) {
	seen := make(map[string]struct{}, len(schemes))
	for _, s := range schemes {
		if s.ID == "" {
			return Registry{}, fmt.Errorf("scheme with empty ID")
		}
		if _, dup := seen[s.ID]; dup {
			return Registry{}, fmt.Errorf("duplicate scheme ID %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return Registry{schemes: schemes}, nil
}

// Default returns the registry used by the standard sweep: epoch-based
// reclamation, hazard pointers, the spin-wait hazard-pointer variant,
// and the crossbeam epoch implementation as a third-party baseline.
func Default() Registry {
	r, err := NewRegistry(
		Scheme{ID: "ebr", Legend: "EBR"},
		Scheme{ID: "hp", Legend: "HP"},
		Scheme{ID: "hpspin", Legend: "HP (spin)", Env: map[string]string{"COMERE_HP_SPIN": "1"}},
		Scheme{ID: "crossbeam", Legend: "Crossbeam", NoList: true},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// All returns the schemes in registry order.
func (r Registry) All() []Scheme {
	out := make([]Scheme, len(r.schemes))
	copy(out, r.schemes)
	return out
}

// For returns the schemes supporting kind k, preserving registry order.
// Queue kinds keep the full width; list-remove drops the schemes
// without a list implementation.
func (r Registry) For(k Kind) []Scheme {
	var out []Scheme
	for _, s := range r.schemes {
		if s.Supports(k) {
			out = append(out, s)
		}
	}
	return out
}

// Lookup finds a scheme by ID.
func (r Registry) Lookup(id string) (Scheme, bool) {
	for _, s := range r.schemes {
		if s.ID == id {
			return s, true
		}
	}
	return Scheme{}, false
}

// Subset builds a registry containing only the named schemes, in the
// order given. Unknown IDs are an error so a typo cannot silently
// shrink a sweep.
func (r Registry) Subset(ids []string) (Registry, error) {
	sub := make([]Scheme, 0, len(ids))
	for _, id := range ids {
		s, ok := r.Lookup(id)
		if !ok {
			return Registry{}, fmt.Errorf("unknown scheme %q", id)
		}
		sub = append(sub, s)
	}
	return NewRegistry(sub...)
}

// Legends returns the legend labels for the schemes supporting kind k,
// in registry order. This is the label sequence handed to the plot
// renderer.
func (r Registry) Legends(k Kind) []string {
	var out []string
	for _, s := range r.For(k) {
		out = append(out, s.Legend)
	}
	return out
}

// Len reports the number of registered schemes.
func (r Registry) Len() int { return len(r.schemes) }
