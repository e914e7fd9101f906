package database

import (
	"fmt"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/provisioning"
	"github.com/imamik/eksgraph/internal/provisioning/network"
	"github.com/imamik/eksgraph/internal/util/labels"
	"github.com/imamik/eksgraph/internal/util/naming"
)

// Secret property keys.
const (
	PropSecretName        = "name"
	PropSecretDescription = "description"
	PropSecretTemplate    = "secretStringTemplate"
	PropGenerateStringKey = "generateStringKey"
	PropExcludeCharacters = "excludeCharacters"
)

// Cluster property keys.
const (
	PropEngine              = "engine"
	PropEngineVersion       = "engineVersion"
	PropDatabaseName        = "databaseName"
	PropMasterUsername      = "masterUsername"
	PropMasterUserSecretARN = "masterUserSecretArn"
	PropStorageEncrypted    = "storageEncrypted"
	PropWriterInstanceClass = "writerInstanceClass"
	PropSecurityGroupIDs    = "vpcSecurityGroupIds"
	PropSubnetIDs           = "subnetIds"
)

// Engine settings.
const (
	Engine        = "aurora-postgresql"
	EngineVersion = "15.5"
	InstanceClass = "db.r6g.xlarge"

	SecurityGroupDescription = "SG for Posit PostgreSQL"
)

// ExcludeCharacters are left out of the generated password so it can be
// embedded in connection strings unescaped.
const ExcludeCharacters = "!@#$%^&*()`-_=+[]{}\\|;:'\",.<>/?"

// Declare adds the credential secret, the security scope and the cluster.
func Declare(g *graph.Graph, params *config.Parameters, net *provisioning.NetworkState) (*provisioning.DatabaseState, error) {
	if net == nil {
		return nil, &graph.NodeError{NodeID: naming.Database, Err: fmt.Errorf("%w: network must be declared first", provisioning.ErrMissingPrerequisite)}
	}
	tags := labels.NewLabelBuilder(params.StackName).WithComponent("database").Build()

	secret, err := g.Add(graph.NewNode(naming.DatabaseSecret, graph.KindSecret, graph.Properties{
		PropSecretName:        graph.Lit(naming.DatabaseSecretName(params.StackName)),
		PropSecretDescription: graph.Lit("Generated credentials for " + params.DatabaseUsername),
		PropSecretTemplate:    graph.Lit(fmt.Sprintf(`{"username":%q}`, params.DatabaseUsername)),
		PropGenerateStringKey: graph.Lit("password"),
		PropExcludeCharacters: graph.Lit(ExcludeCharacters),
	}, graph.WithTags(tags)))
	if err != nil {
		return nil, err
	}

	sg, err := network.DeclareSecurityGroup(g, params, net, network.SecurityGroup{
		ID:          naming.DatabaseSecurityGroup,
		Component:   "database",
		Description: SecurityGroupDescription,
	})
	if err != nil {
		return nil, err
	}

	cluster, err := g.Add(graph.NewNode(naming.Database, graph.KindDatabase, graph.Properties{
		PropEngine:              graph.Lit(Engine),
		PropEngineVersion:       graph.Lit(EngineVersion),
		PropDatabaseName:        graph.Lit(params.DatabaseName),
		PropMasterUsername:      graph.Lit(params.DatabaseUsername),
		PropMasterUserSecretARN: secret.Ref(graph.AttrARN),
		PropStorageEncrypted:    graph.Lit(true),
		PropWriterInstanceClass: graph.Lit(InstanceClass),
		PropSecurityGroupIDs:    graph.List(sg.Ref(graph.AttrID)),
		PropSubnetIDs:           net.PrivateSubnetIDs(),
	}, graph.WithTags(tags)))
	if err != nil {
		return nil, err
	}

	return &provisioning.DatabaseState{SecurityGroup: sg, Secret: secret, Cluster: cluster}, nil
}

// Provisioner declares the relational store.
type Provisioner struct{}

// NewProvisioner creates a new database provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "database"
}

// Provision implements the provisioning.Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	state, err := Declare(ctx.Graph, ctx.Params, ctx.State.Network)
	if err != nil {
		return fmt.Errorf("failed to declare database: %w", err)
	}
	ctx.State.Database = state
	ctx.Observer.Printf("[%s] declared %s %s database %s", p.Name(), Engine, EngineVersion, ctx.Params.DatabaseName)
	return nil
}
