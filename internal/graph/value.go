package graph

import (
	"fmt"
	"sort"
)

// Lookup reads resolved attributes of other nodes.
type Lookup interface {
	Attr(nodeID, key string) (string, error)
}

// Value is a property bag entry. Resolve is only called once every node in
// References has been materialized.
type Value interface {
	Resolve(l Lookup) (any, error)
	References() []Reference
}

// Properties is a kind-specific property bag.
type Properties map[string]Value

// References returns all references in the bag, sorted and deduplicated.
func (p Properties) References() []Reference {
	seen := make(map[Reference]struct{})
	var refs []Reference
	for _, v := range p {
		if v == nil {
			continue
		}
		for _, r := range v.References() {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			refs = append(refs, r)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].NodeID != refs[j].NodeID {
			return refs[i].NodeID < refs[j].NodeID
		}
		return refs[i].Attr < refs[j].Attr
	})
	return refs
}

// Resolve evaluates every property. The first failure is returned with the
// offending key.
func (p Properties) Resolve(l Lookup) (map[string]any, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(p))
	for _, k := range keys {
		if p[k] == nil {
			continue
		}
		v, err := p[k].Resolve(l)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

type literal struct{ v any }

// Lit wraps a value known at declaration time.
func Lit(v any) Value { return literal{v: v} }

func (l literal) Resolve(Lookup) (any, error) { return l.v, nil }
func (l literal) References() []Reference    { return nil }

// Reference points at a resolved attribute of another node. Using one in a
// property bag creates a data edge.
type Reference struct {
	NodeID string
	Attr   string
}

// Ref builds a Reference.
func Ref(nodeID, attr string) Reference { return Reference{NodeID: nodeID, Attr: attr} }

func (r Reference) Resolve(l Lookup) (any, error) { return l.Attr(r.NodeID, r.Attr) }
func (r Reference) References() []Reference      { return []Reference{r} }

// String renders the reference the way plans print it.
func (r Reference) String() string { return fmt.Sprintf("${%s.%s}", r.NodeID, r.Attr) }

type list []Value

// List groups values; it resolves to []any in order.
func List(values ...Value) Value { return list(values) }

func (l list) Resolve(lk Lookup) (any, error) {
	out := make([]any, 0, len(l))
	for i, v := range l {
		r, err := v.Resolve(lk)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (l list) References() []Reference {
	var refs []Reference
	for _, v := range l {
		refs = append(refs, v.References()...)
	}
	return refs
}

// DeriveFunc computes a property from resolved reference values, in the
// order the references were given.
type DeriveFunc func(args ...string) (any, error)

type derived struct {
	refs []Reference
	fn   DeriveFunc
}

// Derive builds a value computed at submission time from resolved
// attributes. Errors returned by fn abort materialization of the node.
func Derive(fn DeriveFunc, refs ...Reference) Value {
	return derived{refs: refs, fn: fn}
}

func (d derived) Resolve(l Lookup) (any, error) {
	args := make([]string, 0, len(d.refs))
	for _, r := range d.refs {
		v, err := l.Attr(r.NodeID, r.Attr)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return d.fn(args...)
}

func (d derived) References() []Reference { return d.refs }
