package network

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/util/labels"
	"github.com/imamik/eksgraph/internal/util/naming"
)

// Property keys.
const (
	PropCIDR             = "cidrBlock"
	PropVPCID            = "vpcId"
	PropAvailabilityZone = "availabilityZone"
	PropMapPublicIP      = "mapPublicIpOnLaunch"
	PropDNSHostnames     = "enableDnsHostnames"
	PropDNSSupport       = "enableDnsSupport"
)

// Subnet tiers.
const (
	TierPublic  = "public"
	TierPrivate = "private"
)

// Provisioner declares the network topology.
type Provisioner struct{}

// NewProvisioner creates a new network provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "network"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	state, err := Declare(ctx.Graph, ctx.Params)
	if err != nil {
		return err
	}
	ctx.State.Network = state
	ctx.Observer.Printf("[%s] declared VPC %s with %d public and %d private subnets",
		p.Name(), ctx.Params.VPCCIDR, len(state.PublicSubnets), len(state.PrivateSubnets))
	return nil
}

// Declare adds the VPC and one public and one private subnet per
// availability zone.
func Declare(g *graph.Graph, params *config.Parameters) (*provisioning.NetworkState, error) {
	public, private, err := config.SubnetLayout(params.VPCCIDR, len(params.AvailabilityZones))
	if err != nil {
		return nil, fmt.Errorf("failed to lay out subnets: %w", err)
	}

	vpc, err := g.Add(graph.NewNode(naming.VPC, graph.KindNetwork, graph.Properties{
		PropCIDR:         graph.Lit(params.VPCCIDR),
		PropDNSHostnames: graph.Lit(true),
		PropDNSSupport:   graph.Lit(true),
	}, graph.WithTags(labels.NewLabelBuilder(params.StackName).WithComponent("network").Build())))
	if err != nil {
		return nil, err
	}

	state := &provisioning.NetworkState{VPC: vpc}
	for i, zone := range params.AvailabilityZones {
		pub, err := declareSubnet(g, params, vpc, TierPublic, zone, public[i])
		if err != nil {
			return nil, err
		}
		state.PublicSubnets = append(state.PublicSubnets, pub)

		priv, err := declareSubnet(g, params, vpc, TierPrivate, zone, private[i])
		if err != nil {
			return nil, err
		}
		state.PrivateSubnets = append(state.PrivateSubnets, priv)
	}
	return state, nil
}

func declareSubnet(g *graph.Graph, params *config.Parameters, vpc *graph.Node, tier, zone, cidr string) (*graph.Node, error) {
	tags := labels.NewLabelBuilder(params.StackName).
		WithComponent("network").
		WithClusterOwnership(params.ClusterIdentifier)
	if tier == TierPublic {
		tags.WithPublicLoadBalancers()
	} else {
		tags.WithInternalLoadBalancers()
	}

	return g.Add(graph.NewNode(naming.Subnet(tier, zone), graph.KindSubnet, graph.Properties{
		PropVPCID:            vpc.Ref(graph.AttrID),
		PropCIDR:             graph.Lit(cidr),
		PropAvailabilityZone: graph.Lit(zone),
		PropMapPublicIP:      graph.Lit(tier == TierPublic),
	}, graph.WithTags(tags.Build())))
}
