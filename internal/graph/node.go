package graph

import (
	"fmt"
	"maps"
	"sync"
)

// Attributes are runtime values assigned by the Resource Provider.
type Attributes map[string]string

// Node is one provisionable unit.
type Node struct {
	id    string
	kind  Kind
	props Properties
	tags  map[string]string

	mu       sync.RWMutex
	attrs    Attributes
	resolved chan struct{}
}

// NodeOption customizes a node at construction time.
type NodeOption func(*Node)

// WithTags attaches resource tags to the node.
func WithTags(tags map[string]string) NodeOption {
	return func(n *Node) {
		n.tags = maps.Clone(tags)
	}
}

// NewNode creates a node. The property bag is copied and cannot be changed
// afterwards.
func NewNode(id string, kind Kind, props Properties, opts ...NodeOption) *Node {
	n := &Node{
		id:       id,
		kind:     kind,
		props:    maps.Clone(props),
		resolved: make(chan struct{}),
	}
	if n.props == nil {
		n.props = Properties{}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ID returns the logical identifier.
func (n *Node) ID() string { return n.id }

// Kind returns the resource kind.
func (n *Node) Kind() Kind { return n.kind }

// Properties returns a copy of the property bag.
func (n *Node) Properties() Properties { return maps.Clone(n.props) }

// Property returns a single property.
func (n *Node) Property(key string) (Value, bool) {
	v, ok := n.props[key]
	return v, ok
}

// Tags returns a copy of the node's tags.
func (n *Node) Tags() map[string]string { return maps.Clone(n.tags) }

// Ref returns a reference to one of this node's attributes.
func (n *Node) Ref(attr string) Reference { return Ref(n.id, attr) }

// Resolve writes the attribute slot. It may only be called once.
func (n *Node) Resolve(attrs Attributes) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	select {
	case <-n.resolved:
		return nodeErr(n.id, ErrAlreadyResolved)
	default:
	}

	n.attrs = maps.Clone(attrs)
	if n.attrs == nil {
		n.attrs = Attributes{}
	}
	close(n.resolved)
	return nil
}

// Resolved is closed once the attributes have been written.
func (n *Node) Resolved() <-chan struct{} { return n.resolved }

// IsResolved reports whether the attribute slot has been written.
func (n *Node) IsResolved() bool {
	select {
	case <-n.resolved:
		return true
	default:
		return false
	}
}

// Attr reads a resolved attribute. Reading before resolution is a fault.
func (n *Node) Attr(key string) (string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if !n.IsResolved() {
		return "", nodeErrf(n.id, "read of %q: %w", key, ErrUnresolvedReference)
	}
	v, ok := n.attrs[key]
	if !ok {
		return "", nodeErrf(n.id, "%w %q", ErrMissingAttribute, key)
	}
	return v, nil
}

// Attributes returns a copy of the resolved attributes, or nil.
func (n *Node) Attributes() Attributes {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return maps.Clone(n.attrs)
}

func (n *Node) String() string { return fmt.Sprintf("%s(%s)", n.kind, n.id) }
