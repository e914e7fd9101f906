package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Subnet", Subnet("private", "us-east-1a"), "subnet-private-us-east-1a"},
		{"WorkerPool", WorkerPool("posit-small"), "nodegroup-posit-small"},
		{"AccessEntry", AccessEntry("admin"), "access-admin"},
		{"TrustBinding", TrustBinding("efs-csi"), "irsa-efs-csi"},
		{"Extension", Extension("coredns"), "addon-coredns"},
		{"AccessPartition", AccessPartition("connect"), "efs-ap-connect"},
		{"Rule", Rule("cluster", "storage"), "rule-cluster-to-storage"},
		{"DatabaseSecretName", DatabaseSecretName("posit-sce"), "posit-sce-db"},
		{"TrustBindingRole", TrustBindingRole("posit", "vpc-cni"), "posit-vpc-cni-irsa"},
		{"AdminRoleName", AdminRoleName("posit"), "posit-admin"},
		{"IngressSecurityGroupName", IngressSecurityGroupName(), "posit-eks-alb-sg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, expected %q", tt.got, tt.expected)
			}
		})
	}
}
