// Package scheme enumerates the memory-reclamation schemes and benchmark
// kinds the sweep harness knows about. Downstream stages align columns
// positionally, so the ordered Registry is the single source of truth for
// which scheme a column belongs to.
package scheme

import "fmt"

// Kind identifies one benchmark operation of the external binaries.
type Kind string

const (
	QueuePush     Kind = "queue-push"
	QueuePop      Kind = "queue-pop"
	QueueTransfer Kind = "queue-transfer"
	ListRemove    Kind = "list-remove"
)

// Kinds returns every benchmark kind in declared order.
func Kinds() []Kind {
	return []Kind{QueuePush, QueuePop, QueueTransfer, ListRemove}
}

// ParseKind maps a CLI string onto a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown benchmark kind %q", s)
}

// Scheme describes one reclamation scheme under test.
type Scheme struct {
	// ID names the scheme in binary names and data files, e.g. "ebr".
	ID string `json:"id"`
	// Legend is the label used in plot legends and tables.
	Legend string `json:"legend"`
	// Env holds extra environment variables the benchmark binary needs
	// for this scheme (the spin-wait hazard-pointer variant).
	Env map[string]string `json:"env,omitempty"`
	// NoList marks schemes without a linked-list implementation; they
	// are skipped for ListRemove.
	NoList bool `json:"no_list,omitempty"`
}

// Supports reports whether the scheme provides the given benchmark kind.
func (s Scheme) Supports(k Kind) bool {
	return k != ListRemove || !s.NoList
}
