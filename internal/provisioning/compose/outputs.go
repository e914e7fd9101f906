package compose

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
)

// Output keys.
const (
	OutputVPCID                = "VPCId"
	OutputClusterName          = "PositSceClusterName"
	OutputFilesystemID         = "EfsFileSystemId"
	OutputPostgresSecret       = "PostgresSecret"
	OutputALBControllerRoleARN = "AlbControllerRoleArn"
	OutputALBSecurityGroup     = "AlbSg"
)

type export struct {
	key         string
	description string
	value       graph.Value
}

func exports(state *provisioning.State) ([]export, error) {
	if state.Network == nil || state.Cluster == nil || state.Storage == nil || state.Database == nil || state.Ingress == nil {
		return nil, fmt.Errorf("%w: outputs need every component declared", provisioning.ErrMissingPrerequisite)
	}
	return []export{
		{OutputVPCID, "VPC ID for Posit SCE", state.Network.VPCID()},
		{OutputClusterName, "Posit SCE cluster name", state.Cluster.ControlPlane.Ref(graph.AttrName)},
		{OutputFilesystemID, "EFS File System ID for Posit", state.Storage.Filesystem.Ref(graph.AttrID)},
		{OutputPostgresSecret, "Connection info for the DB stored in SecretsManager", state.Database.Secret.Ref(graph.AttrName)},
		{OutputALBControllerRoleARN, "Role used for AWS ALB Controller", state.Ingress.Controller.RoleARN()},
		{OutputALBSecurityGroup, "Security Group for Posit SCE ALB", state.Ingress.SecurityGroup.Ref(graph.AttrID)},
	}, nil
}

// OutputsPhase declares the output exports.
type OutputsPhase struct{}

// Name implements the provisioning.Phase interface.
func (p *OutputsPhase) Name() string { return "outputs" }

// Provision implements the provisioning.Phase interface.
func (p *OutputsPhase) Provision(ctx *provisioning.Context) error {
	list, err := exports(ctx.State)
	if err != nil {
		return err
	}
	for _, e := range list {
		n, err := ctx.Graph.Export(e.key, e.description, e.value)
		if err != nil {
			return fmt.Errorf("failed to declare output %s: %w", e.key, err)
		}
		ctx.State.Exports = append(ctx.State.Exports, n)
	}
	return nil
}
