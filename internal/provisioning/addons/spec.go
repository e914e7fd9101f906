package addons

import "github.com/imamik/eksgraph/internal/config"

// Role classifies an extension for ordering purposes.
type Role string

const (
	RoleNone Role = ""
	// RoleBaseNetworking must be requested before any RoleProxy extension.
	RoleBaseNetworking Role = "base-networking"
	// RoleProxy depends on base networking.
	RoleProxy Role = "proxy"
	// RoleIdentityAgent, when planned, must be requested before any
	// extension that consumes a trust binding.
	RoleIdentityAgent Role = "identity-agent"
)

// ResolveConflictsOverwrite lets the extension replace existing
// configuration on the cluster.
const ResolveConflictsOverwrite = "OVERWRITE"

// Extension names.
const (
	CoreDNS          = "coredns"
	KubeProxy        = "kube-proxy"
	PodIdentityAgent = "eks-pod-identity-agent"
	VPCCNI           = "vpc-cni"
	EFSCSIDriver     = "aws-efs-csi-driver"
)

// VPCCNIVersion pins the CNI extension.
const VPCCNIVersion = "v1.16.4-eksbuild.2"

// Spec describes one extension.
type Spec struct {
	Name    string
	Version string
	Role    Role
	// Binding names the trust binding whose role the extension runs as.
	Binding string
	// Requires lists extensions that must be requested first.
	Requires         []string
	ResolveConflicts string
}

// DefaultPlan returns the extensions of the reference deployment in
// request order.
func DefaultPlan(params *config.Parameters) []Spec {
	plan := []Spec{
		{Name: CoreDNS, Role: RoleBaseNetworking, ResolveConflicts: ResolveConflictsOverwrite},
		{Name: KubeProxy, Role: RoleProxy, ResolveConflicts: ResolveConflictsOverwrite},
	}
	if params.PodIdentityAgentEnabled() {
		plan = append(plan, Spec{Name: PodIdentityAgent, Role: RoleIdentityAgent})
	}
	return append(plan,
		Spec{
			Name:             VPCCNI,
			Version:          VPCCNIVersion,
			Binding:          "vpc-cni",
			Requires:         []string{KubeProxy},
			ResolveConflicts: ResolveConflictsOverwrite,
		},
		Spec{Name: EFSCSIDriver, Binding: "efs-csi"},
	)
}
