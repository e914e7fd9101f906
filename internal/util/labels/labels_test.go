package labels

import "testing"

func TestNewLabelBuilder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		stackName string
	}{
		{"default stack", "posit-sce"},
		{"single word", "production"},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			labels := NewLabelBuilder(tt.stackName).Build()

			if labels[KeyStack] != tt.stackName {
				t.Errorf("expected %s=%q, got %q", KeyStack, tt.stackName, labels[KeyStack])
			}
			if labels[KeyManagedBy] != ManagedByEksgraph {
				t.Errorf("expected %s=%q, got %q", KeyManagedBy, ManagedByEksgraph, labels[KeyManagedBy])
			}
		})
	}
}

func TestSubnetTags(t *testing.T) {
	t.Parallel()

	public := NewLabelBuilder("s").WithPublicLoadBalancers().WithClusterOwnership("posit").Build()
	if public[KeyPublicLoadBalancer] != "1" {
		t.Errorf("expected %s=1", KeyPublicLoadBalancer)
	}
	if public["kubernetes.io/cluster/posit"] != "owned" {
		t.Errorf("expected cluster ownership tag, got %v", public)
	}
	if _, ok := public[KeyInternalLoadBalancer]; ok {
		t.Error("public subnet must not carry the internal tag")
	}

	private := NewLabelBuilder("s").WithInternalLoadBalancers().Build()
	if private[KeyInternalLoadBalancer] != "1" {
		t.Errorf("expected %s=1", KeyInternalLoadBalancer)
	}
}

func TestWithComponent(t *testing.T) {
	t.Parallel()
	labels := NewLabelBuilder("s").WithComponent("storage").Build()
	if labels[KeyComponent] != "storage" {
		t.Errorf("expected %s=storage, got %q", KeyComponent, labels[KeyComponent])
	}
}

func TestTemporary(t *testing.T) {
	t.Parallel()
	if IsTemporary(NewLabelBuilder("s").Build()) {
		t.Error("fresh builder must not be temporary")
	}
	if !IsTemporary(NewLabelBuilder("s").WithTemporary().Build()) {
		t.Error("expected temporary marker")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()
	labels := NewLabelBuilder("s").Merge(map[string]string{"custom": "value", KeyStack: "override"}).Build()
	if labels["custom"] != "value" {
		t.Errorf("expected custom=value, got %q", labels["custom"])
	}
	if labels[KeyStack] != "override" {
		t.Errorf("merge should override, got %q", labels[KeyStack])
	}
}

func TestBuildReturnsCopy(t *testing.T) {
	t.Parallel()
	lb := NewLabelBuilder("s")
	labels := lb.Build()
	labels["mutated"] = "yes"

	if _, ok := lb.Build()["mutated"]; ok {
		t.Error("Build should return a copy")
	}
}
