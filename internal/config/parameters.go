package config

import (
	"fmt"
	"net/netip"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/imamik/eksgraph/internal/util/ptr"
)

var (
	accountIDPattern  = regexp.MustCompile(`^[0-9]{12}$`)
	regionPattern     = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-[0-9]+$`)
	k8sVersionPattern = regexp.MustCompile(`^1\.[0-9]+$`)
)

// Parameters is the typed view of the parameter source.
type Parameters struct {
	StackName                       string   `mapstructure:"stackName"`
	ClusterIdentifier               string   `mapstructure:"clusterIdentifier"`
	Region                          string   `mapstructure:"region"`
	AccountID                       string   `mapstructure:"accountId"`
	Partition                       string   `mapstructure:"partition"`
	VPCCIDR                         string   `mapstructure:"vpcCidr"`
	AvailabilityZones               []string `mapstructure:"availabilityZones"`
	KubernetesVersion               string   `mapstructure:"kubernetesVersion"`
	EFSCSIDriverServiceAccountName  string   `mapstructure:"efsCsiDriverServiceAccountName"`
	VPCCNIDriverServiceAccountName  string   `mapstructure:"vpcCniDriverServiceAccountName"`
	ALBControllerServiceAccountName string   `mapstructure:"albControllerServiceAccountName"`
	DatabaseName                    string   `mapstructure:"databaseName"`
	DatabaseUsername                string   `mapstructure:"databaseUsername"`
	// OperatorIdentity is the IAM principal granted temporary cluster admin.
	// Empty means no temporary grant is declared.
	OperatorIdentity string `mapstructure:"operatorIdentity"`
	// ClusterIssuerURL pins the issuer when it is known before the cluster
	// exists. It is checked before anything is submitted and must match the
	// issuer the cluster resolves.
	ClusterIssuerURL string `mapstructure:"clusterIssuerUrl"`
	PodIdentityAgent *bool  `mapstructure:"podIdentityAgent"`

	AcceptedRisks []RiskException `mapstructure:"-"`
	// UnknownKeys lists source keys no field consumed.
	UnknownKeys []string `mapstructure:"-"`
}

// FromMap decodes a flat parameter map. Aliases are folded into their
// canonical key; setting both with different values is an error.
func FromMap(raw map[string]string) (*Parameters, error) {
	canonical := make(map[string]any, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := strings.TrimSpace(raw[k])
		target := k
		if alias, ok := Aliases[k]; ok {
			target = alias
		}
		if prev, ok := canonical[target]; ok && prev != v {
			return nil, fmt.Errorf("parameter %s set twice with different values (%q, %q)", target, prev, v)
		}
		canonical[target] = v
	}

	var p Parameters
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           &p,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(canonical); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}

	p.AvailabilityZones = slices.DeleteFunc(p.AvailabilityZones, func(s string) bool {
		return strings.TrimSpace(s) == ""
	})
	for i, az := range p.AvailabilityZones {
		p.AvailabilityZones[i] = strings.TrimSpace(az)
	}
	p.UnknownKeys = md.Unused
	sort.Strings(p.UnknownKeys)
	return &p, nil
}

// ApplyDefaults fills every optional field that is still empty.
func (p *Parameters) ApplyDefaults() {
	if p.StackName == "" {
		p.StackName = DefaultStackName
	}
	if p.Region == "" {
		p.Region = DefaultRegion
	}
	if p.Partition == "" {
		p.Partition = DefaultPartition
	}
	if p.VPCCIDR == "" {
		p.VPCCIDR = DefaultVPCCIDR
	}
	if len(p.AvailabilityZones) == 0 {
		for i := range DefaultAvailabilityZoneCount {
			p.AvailabilityZones = append(p.AvailabilityZones, p.Region+string(rune('a'+i)))
		}
	}
	if p.KubernetesVersion == "" {
		p.KubernetesVersion = DefaultKubernetesVersion
	}
	if p.EFSCSIDriverServiceAccountName == "" {
		p.EFSCSIDriverServiceAccountName = DefaultEFSCSIDriverServiceAccountName
	}
	if p.VPCCNIDriverServiceAccountName == "" {
		p.VPCCNIDriverServiceAccountName = DefaultVPCCNIDriverServiceAccountName
	}
	if p.ALBControllerServiceAccountName == "" {
		p.ALBControllerServiceAccountName = DefaultALBControllerServiceAccountName
	}
	if p.PodIdentityAgent == nil {
		p.PodIdentityAgent = ptr.Bool(true)
	}
	if p.AcceptedRisks == nil {
		p.AcceptedRisks = DefaultAcceptedRisks()
	}
}

// PodIdentityAgentEnabled reports whether the pod identity agent extension
// is part of the plan.
func (p *Parameters) PodIdentityAgentEnabled() bool {
	return ptr.Deref(p.PodIdentityAgent, true)
}

// PrincipalPath qualifies a service account name with the system namespace
// unless it already names one.
func PrincipalPath(serviceAccount string) string {
	if strings.Contains(serviceAccount, "/") {
		return serviceAccount
	}
	return SystemNamespace + "/" + serviceAccount
}

// Validate reports the first hard error. Softer findings are produced by the
// provisioning validation phase.
func (p *Parameters) Validate() error {
	if p.ClusterIdentifier == "" {
		return fmt.Errorf("%s is required", KeyClusterIdentifier)
	}
	if len(p.ClusterIdentifier) > 100 || strings.ContainsAny(p.ClusterIdentifier, " /:") {
		return fmt.Errorf("%s %q is not a valid cluster name", KeyClusterIdentifier, p.ClusterIdentifier)
	}
	if p.DatabaseName == "" {
		return fmt.Errorf("%s is required", KeyDatabaseName)
	}
	if p.DatabaseUsername == "" {
		return fmt.Errorf("%s is required", KeyDatabaseUsername)
	}
	if !regionPattern.MatchString(p.Region) {
		return fmt.Errorf("%s %q is not a valid region", KeyRegion, p.Region)
	}
	if p.AccountID != "" && !accountIDPattern.MatchString(p.AccountID) {
		return fmt.Errorf("%s %q must be 12 digits", KeyAccountID, p.AccountID)
	}
	if !k8sVersionPattern.MatchString(p.KubernetesVersion) {
		return fmt.Errorf("%s %q must look like 1.29", KeyKubernetesVersion, p.KubernetesVersion)
	}

	prefix, err := netip.ParsePrefix(p.VPCCIDR)
	if err != nil {
		return fmt.Errorf("%s: %w", KeyVPCCIDR, err)
	}
	if !prefix.Addr().Is4() {
		return fmt.Errorf("%s %q: only IPv4 is supported", KeyVPCCIDR, p.VPCCIDR)
	}
	if prefix.Bits() > 24 {
		return fmt.Errorf("%s %q is too small, use /24 or larger", KeyVPCCIDR, p.VPCCIDR)
	}

	if len(p.AvailabilityZones) < 2 {
		return fmt.Errorf("%s needs at least two zones, got %d", KeyAvailabilityZones, len(p.AvailabilityZones))
	}
	seen := make(map[string]struct{}, len(p.AvailabilityZones))
	for _, az := range p.AvailabilityZones {
		if !strings.HasPrefix(az, p.Region) {
			return fmt.Errorf("%s: zone %q is not in region %s", KeyAvailabilityZones, az, p.Region)
		}
		if _, dup := seen[az]; dup {
			return fmt.Errorf("%s: zone %q listed twice", KeyAvailabilityZones, az)
		}
		seen[az] = struct{}{}
	}

	for i, r := range p.AcceptedRisks {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("acceptedRisks[%d]: %w", i, err)
		}
	}
	return nil
}
