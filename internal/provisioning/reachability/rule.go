package reachability

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"

	"github.com/imamik/eksgraph/internal/graph"
)

// Protocol is an IP protocol name as the provider expects it.
type Protocol string

const (
	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
	ProtocolAll Protocol = "-1"
)

// Direction of a rule relative to its subject scope.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// AnyIPv4 is the unrestricted IPv4 range.
const AnyIPv4 = "0.0.0.0/0"

// Rule property keys.
const (
	PropGroupID     = "groupId"
	PropPeerGroupID = "sourceSecurityGroupId"
	PropCIDR        = "cidrIp"
	PropProtocol    = "ipProtocol"
	PropFromPort    = "fromPort"
	PropToPort      = "toPort"
	PropDirection   = "direction"
	PropDescription = "description"
)

// ErrInvalidRule is returned for rules that cannot be declared.
var ErrInvalidRule = errors.New("invalid reachability rule")

// Scope is a security scope whose identifier resolves at runtime.
type Scope struct {
	Name   string
	NodeID string
	Attr   string
}

// NewScope returns the scope identified by attr of node.
func NewScope(name string, n *graph.Node, attr string) Scope {
	return Scope{Name: name, NodeID: n.ID(), Attr: attr}
}

// Ref returns the reference to the scope's resolved identifier.
func (s Scope) Ref() graph.Reference { return graph.Ref(s.NodeID, s.Attr) }

// IsZero reports whether the scope is unset.
func (s Scope) IsZero() bool { return s.NodeID == "" }

// PortRange is an inclusive port range. Bounds are values so a port can be a
// resolved attribute, such as a database endpoint port.
type PortRange struct {
	From graph.Value
	To   graph.Value
}

// Port is a single fixed port.
func Port(p int) PortRange { return PortRange{From: graph.Lit(p), To: graph.Lit(p)} }

// PortRef is a single port read from a resolved attribute. The attribute
// is converted to an int like literal ports.
func PortRef(r graph.Reference) PortRange {
	port := graph.Derive(func(args ...string) (any, error) {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 0 || p > 65535 {
			return nil, fmt.Errorf("%w: port %q from %s is not a valid port", ErrInvalidRule, args[0], r)
		}
		return p, nil
	}, r)
	return PortRange{From: port, To: port}
}

// AllPorts spans every port.
func AllPorts() PortRange { return PortRange{From: graph.Lit(0), To: graph.Lit(65535)} }

// Rule allows traffic into (or out of) Subject from Peer or CIDR.
type Rule struct {
	ID          string
	Subject     Scope
	Peer        *Scope
	CIDR        string
	Protocol    Protocol
	Ports       PortRange
	Direction   Direction
	Description string
}

// FromScope builds an inbound rule on subject admitting peer.
func FromScope(id string, subject, peer Scope, proto Protocol, ports PortRange, description string) Rule {
	return Rule{
		ID:          id,
		Subject:     subject,
		Peer:        &peer,
		Protocol:    proto,
		Ports:       ports,
		Direction:   DirectionIn,
		Description: description,
	}
}

// FromCIDR builds an inbound rule on subject admitting an address range.
func FromCIDR(id string, subject Scope, cidr string, proto Protocol, ports PortRange, description string) Rule {
	return Rule{
		ID:          id,
		Subject:     subject,
		CIDR:        cidr,
		Protocol:    proto,
		Ports:       ports,
		Direction:   DirectionIn,
		Description: description,
	}
}

// Validate checks the rule's shape.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRule)
	}
	if r.Subject.IsZero() {
		return fmt.Errorf("%w %s: missing subject scope", ErrInvalidRule, r.ID)
	}
	if (r.Peer == nil) == (r.CIDR == "") {
		return fmt.Errorf("%w %s: exactly one of peer scope or CIDR is required", ErrInvalidRule, r.ID)
	}
	if r.Peer != nil && r.Peer.IsZero() {
		return fmt.Errorf("%w %s: empty peer scope", ErrInvalidRule, r.ID)
	}
	if r.Peer != nil && *r.Peer == r.Subject {
		return fmt.Errorf("%w %s: scope cannot reference itself", ErrInvalidRule, r.ID)
	}
	if r.CIDR != "" {
		if _, err := netip.ParsePrefix(r.CIDR); err != nil {
			return fmt.Errorf("%w %s: %v", ErrInvalidRule, r.ID, err)
		}
	}
	switch r.Protocol {
	case ProtocolTCP, ProtocolUDP, ProtocolAll:
	default:
		return fmt.Errorf("%w %s: unsupported protocol %q", ErrInvalidRule, r.ID, r.Protocol)
	}
	if r.Ports.From == nil || r.Ports.To == nil {
		return fmt.Errorf("%w %s: missing port range", ErrInvalidRule, r.ID)
	}
	if from, ok := literalPort(r.Ports.From); ok {
		to, ok := literalPort(r.Ports.To)
		if ok && (from < 0 || to > 65535 || from > to) {
			return fmt.Errorf("%w %s: invalid port range %d-%d", ErrInvalidRule, r.ID, from, to)
		}
	}
	switch r.Direction {
	case DirectionIn, DirectionOut:
	default:
		return fmt.Errorf("%w %s: unsupported direction %q", ErrInvalidRule, r.ID, r.Direction)
	}
	return nil
}

func literalPort(v graph.Value) (int, bool) {
	if len(v.References()) > 0 {
		return 0, false
	}
	resolved, err := v.Resolve(nil)
	if err != nil {
		return 0, false
	}
	p, ok := resolved.(int)
	return p, ok
}

// Properties renders the rule's property bag.
func (r Rule) Properties() graph.Properties {
	props := graph.Properties{
		PropGroupID:     r.Subject.Ref(),
		PropProtocol:    graph.Lit(string(r.Protocol)),
		PropFromPort:    r.Ports.From,
		PropToPort:      r.Ports.To,
		PropDirection:   graph.Lit(string(r.Direction)),
		PropDescription: graph.Lit(r.Description),
	}
	if r.Peer != nil {
		props[PropPeerGroupID] = r.Peer.Ref()
	} else {
		props[PropCIDR] = graph.Lit(r.CIDR)
	}
	return props
}

// Declare adds the rule to g as a ReachabilityRule node. Every scope it
// names must already be in the graph.
func Declare(g *graph.Graph, r Rule, opts ...graph.NodeOption) (*graph.Node, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return g.Add(graph.NewNode(r.ID, graph.KindReachabilityRule, r.Properties(), opts...))
}

// InlineRules renders CIDR rules as the list embedded in a security scope's
// own property bag.
func InlineRules(rules ...Rule) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(rules))
	for _, r := range rules {
		if r.Peer != nil {
			return nil, fmt.Errorf("%w %s: inline rules cannot reference a peer scope", ErrInvalidRule, r.ID)
		}
		from, ok := literalPort(r.Ports.From)
		if !ok {
			return nil, fmt.Errorf("%w %s: inline rules need literal ports", ErrInvalidRule, r.ID)
		}
		to, _ := literalPort(r.Ports.To)
		out = append(out, map[string]any{
			PropCIDR:        r.CIDR,
			PropProtocol:    string(r.Protocol),
			PropFromPort:    from,
			PropToPort:      to,
			PropDescription: r.Description,
		})
	}
	return out, nil
}
