package graph

import "fmt"

// EdgeKind distinguishes data edges from ordering edges.
type EdgeKind int

const (
	// EdgeData means the target's property bag references the source.
	EdgeData EdgeKind = iota
	// EdgeOrdering means the target must follow the source without a data
	// reference.
	EdgeOrdering
)

// String returns a human-readable edge kind.
func (k EdgeKind) String() string {
	switch k {
	case EdgeData:
		return "data"
	case EdgeOrdering:
		return "ordering"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in plans.
func (k EdgeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText parses a kind written by MarshalText.
func (k *EdgeKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "data":
		*k = EdgeData
	case "ordering":
		*k = EdgeOrdering
	default:
		return fmt.Errorf("unknown edge kind %q", text)
	}
	return nil
}

// Edge means To materializes after From.
type Edge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Kind   EdgeKind `json:"kind"`
	Reason string   `json:"reason,omitempty"`
}
