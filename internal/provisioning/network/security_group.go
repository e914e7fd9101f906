package network

import (
	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/util/labels"
)

// Security scope property keys.
const (
	PropGroupName        = "groupName"
	PropGroupDescription = "groupDescription"
	PropAllowAllOutbound = "allowAllOutbound"
	PropIngressRules     = "securityGroupIngress"
)

// SecurityGroup describes a security scope inside the VPC.
type SecurityGroup struct {
	ID          string
	Component   string
	Description string
	// Name is the physical group name. Empty lets the provider choose.
	Name string
	// Kind defaults to graph.KindSecurityScope.
	Kind graph.Kind
	// Inline are rules rendered by reachability.InlineRules.
	Inline []map[string]any
}

// DeclareSecurityGroup adds a security scope with unrestricted egress.
func DeclareSecurityGroup(g *graph.Graph, params *config.Parameters, net *provisioning.NetworkState, sg SecurityGroup) (*graph.Node, error) {
	props := graph.Properties{
		PropVPCID:            net.VPCID(),
		PropGroupDescription: graph.Lit(sg.Description),
		PropAllowAllOutbound: graph.Lit(true),
	}
	if sg.Name != "" {
		props[PropGroupName] = graph.Lit(sg.Name)
	}
	if len(sg.Inline) > 0 {
		props[PropIngressRules] = graph.Lit(sg.Inline)
	}
	kind := sg.Kind
	if kind == "" {
		kind = graph.KindSecurityScope
	}
	tags := labels.NewLabelBuilder(params.StackName).WithComponent(sg.Component).Build()
	return g.Add(graph.NewNode(sg.ID, kind, props, graph.WithTags(tags)))
}
