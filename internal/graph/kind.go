package graph

// Kind identifies the type of resource a node represents.
type Kind string

const (
	KindNetwork         Kind = "Network"
	KindCluster         Kind = "Cluster"
	KindWorkerPool      Kind = "WorkerPool"
	KindExtension       Kind = "Extension"
	KindTrustBinding    Kind = "TrustBinding"
	KindFilesystem      Kind = "Filesystem"
	KindAccessPartition Kind = "AccessPartition"
	KindDatabase        Kind = "Database"
	KindIngressPoint    Kind = "IngressPoint"
	KindOutputExport    Kind = "OutputExport"

	KindSubnet           Kind = "Subnet"
	KindSecurityScope    Kind = "SecurityScope"
	KindReachabilityRule Kind = "ReachabilityRule"
	KindIdentityProvider Kind = "IdentityProvider"
	KindRole             Kind = "Role"
	KindAccessEntry      Kind = "AccessEntry"
	KindSecret           Kind = "Secret"
)

// Well-known attribute keys written by the Resource Provider.
const (
	AttrID              = "id"
	AttrARN             = "arn"
	AttrName            = "name"
	AttrEndpoint        = "endpoint"
	AttrPort            = "port"
	AttrIssuerURL       = "openIdConnectIssuerUrl"
	AttrSecurityGroupID = "clusterSecurityGroupId"
	AttrValue           = "value"
)

// IsLocal reports whether nodes of this kind are resolved by the executor
// itself instead of being submitted to the Resource Provider.
func (k Kind) IsLocal() bool {
	return k == KindOutputExport
}
