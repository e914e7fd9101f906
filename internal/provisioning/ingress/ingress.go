package ingress

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/identity"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/network"
	"github.com/imamik/eksgraph/internal/provisioning/reachability"
	"github.com/imamik/eksgraph/internal/provisioning/trust"
	"github.com/imamik/eksgraph/internal/util/naming"
)

// ErrRuleOutOfScope is returned by AddIngressRule.
var ErrRuleOutOfScope = provisioning.ErrRuleOutOfScope

// SecurityGroupDescription describes the load balancer scope.
const SecurityGroupDescription = "SG for Posit ALB"

// ControllerPolicyName is the inline policy attached to the controller role.
const ControllerPolicyName = "alb"

// Upstream aws-load-balancer-controller v2.5.4 docs/install/iam_policy.json.
//
//go:embed alb_controller_iam_policy.json
var controllerPolicyJSON []byte

var controllerPolicy = sync.OnceValues(func() (identity.PolicyDocument, error) {
	return identity.ParsePolicyDocument(controllerPolicyJSON)
})

// ControllerPolicy returns the load balancer controller's policy document.
func ControllerPolicy() (identity.PolicyDocument, error) {
	return controllerPolicy()
}

// scope is the ingress security scope, known before the node is added.
func scope() reachability.Scope {
	return reachability.Scope{Name: "ingress", NodeID: naming.IngressSecurityGroup, Attr: graph.AttrID}
}

// Rules returns the only inbound rules the ingress scope carries.
func Rules() []reachability.Rule {
	s := scope()
	return []reachability.Rule{
		reachability.FromCIDR(naming.IngressSecurityGroup+"-http", s, reachability.AnyIPv4, reachability.ProtocolTCP, reachability.Port(80), "Allow HTTP from anywhere"),
		reachability.FromCIDR(naming.IngressSecurityGroup+"-https", s, reachability.AnyIPv4, reachability.ProtocolTCP, reachability.Port(443), "Allow HTTPS from anywhere"),
	}
}

// Declare adds the controller's trust binding and the ingress scope.
func Declare(g *graph.Graph, params *config.Parameters, net *provisioning.NetworkState, cluster *provisioning.ClusterState, fed *provisioning.FederationState) (*provisioning.IngressState, error) {
	if net == nil {
		return nil, &graph.NodeError{NodeID: naming.IngressSecurityGroup, Err: fmt.Errorf("%w: network must be declared first", provisioning.ErrMissingPrerequisite)}
	}

	policy, err := ControllerPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to load load balancer controller policy: %w", err)
	}
	controller, err := trust.Declare(g, params, cluster, fed, trust.Spec{
		Name:           trust.BindingALBController,
		ServiceAccount: params.ALBControllerServiceAccountName,
		InlinePolicies: []identity.InlinePolicy{{Name: ControllerPolicyName, Document: policy}},
	})
	if err != nil {
		return nil, err
	}

	rules := Rules()
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	inline, err := reachability.InlineRules(rules...)
	if err != nil {
		return nil, err
	}
	sg, err := network.DeclareSecurityGroup(g, params, net, network.SecurityGroup{
		ID:          naming.IngressSecurityGroup,
		Component:   "ingress",
		Description: SecurityGroupDescription,
		Name:        naming.IngressSecurityGroupName(),
		Kind:        graph.KindIngressPoint,
		Inline:      inline,
	})
	if err != nil {
		return nil, err
	}

	return &provisioning.IngressState{SecurityGroup: sg, Controller: controller}, nil
}

// AddIngressRule rejects every rule. The ingress scope admits exactly the
// rules returned by Rules.
func AddIngressRule(_ *provisioning.IngressState, r reachability.Rule) error {
	return &graph.NodeError{
		NodeID: naming.IngressSecurityGroup,
		Err:    fmt.Errorf("%w: ingress scope does not accept rule %s", ErrRuleOutOfScope, r.ID),
	}
}

// Provisioner declares the ingress point.
type Provisioner struct{}

// NewProvisioner creates a new ingress provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "ingress"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	state, err := Declare(ctx.Graph, ctx.Params, ctx.State.Network, ctx.State.Cluster, ctx.State.Federation)
	if err != nil {
		return fmt.Errorf("failed to declare ingress: %w", err)
	}
	ctx.State.Ingress = state
	ctx.State.TrustBindings[state.Controller.Name] = state.Controller
	ctx.Observer.Printf("[%s] declared security group %s", p.Name(), naming.IngressSecurityGroupName())
	return nil
}
