package config

// Parameter keys recognized by FromMap.
const (
	KeyStackName                       = "stackName"
	KeyClusterIdentifier               = "clusterIdentifier"
	KeyRegion                          = "region"
	KeyAccountID                       = "accountId"
	KeyPartition                       = "partition"
	KeyVPCCIDR                         = "vpcCidr"
	KeyAvailabilityZones               = "availabilityZones"
	KeyKubernetesVersion               = "kubernetesVersion"
	KeyEFSCSIDriverServiceAccountName  = "efsCsiDriverServiceAccountName"
	KeyVPCCNIDriverServiceAccountName  = "vpcCniDriverServiceAccountName"
	KeyALBControllerServiceAccountName = "albControllerServiceAccountName"
	KeyDatabaseName                    = "databaseName"
	KeyDatabaseUsername                = "databaseUsername"
	KeyOperatorIdentity                = "operatorIdentity"
	KeyClusterIssuerURL                = "clusterIssuerUrl"
	KeyPodIdentityAgent                = "podIdentityAgent"
)

// Aliases maps legacy parameter names to their canonical key.
var Aliases = map[string]string{
	"clusterName":    KeyClusterIdentifier,
	"dbName":         KeyDatabaseName,
	"dbUser":         KeyDatabaseUsername,
	"currentRoleArn": KeyOperatorIdentity,
}

// Defaults.
const (
	DefaultStackName                       = "posit-sce"
	DefaultRegion                          = "us-east-1"
	DefaultPartition                       = "aws"
	DefaultVPCCIDR                         = "10.0.0.0/16"
	DefaultKubernetesVersion               = "1.29"
	DefaultEFSCSIDriverServiceAccountName  = "efs-csi-controller-sa"
	DefaultVPCCNIDriverServiceAccountName  = "aws-node"
	DefaultALBControllerServiceAccountName = "aws-load-balancer-controller"
	DefaultAvailabilityZoneCount           = 2

	// SystemNamespace holds the workloads whose service accounts are given
	// without a namespace.
	SystemNamespace = "kube-system"
)
