package naming

import "fmt"

// Logical identifiers.

const (
	VPC                   = "vpc"
	ClusterServiceRole    = "eks-service-role"
	ControlPlane          = "eks-cluster"
	NodeRole              = "eks-node-role"
	IdentityProvider      = "eks-oidc-provider"
	AdminRole             = "eks-admin-role"
	StorageSecurityGroup  = "efs-sg"
	Filesystem            = "efs"
	DatabaseSecurityGroup = "db-sg"
	DatabaseSecret        = "db-secret"
	Database              = "aurora-postgres"
	IngressSecurityGroup  = "alb-sg"
)

func Subnet(tier, zone string) string {
	return fmt.Sprintf("subnet-%s-%s", tier, zone)
}

func WorkerPool(pool string) string {
	return "nodegroup-" + pool
}

func AccessEntry(name string) string {
	return "access-" + name
}

func TrustBinding(name string) string {
	return "irsa-" + name
}

func Extension(name string) string {
	return "addon-" + name
}

func AccessPartition(name string) string {
	return "efs-ap-" + name
}

func Rule(from, to string) string {
	return fmt.Sprintf("rule-%s-to-%s", from, to)
}

// Physical names.

func DatabaseSecretName(stack string) string {
	return stack + "-db"
}

func TrustBindingRole(cluster, name string) string {
	return fmt.Sprintf("%s-%s-irsa", cluster, name)
}

func AdminRoleName(cluster string) string {
	return cluster + "-admin"
}

func IngressSecurityGroupName() string {
	return "posit-eks-alb-sg"
}
