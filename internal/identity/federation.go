package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"
)

const (
	// IssuerMarker separates the issuer host from the cluster identifier.
	IssuerMarker = "amazonaws.com/id/"

	// DefaultPartition is used when the resolver has no partition set.
	DefaultPartition = "aws"

	oidcHostPrefix       = "oidc.eks."
	oidcProviderResource = "oidc-provider/"
)

// ErrMalformedIssuerURL is returned when an issuer URL cannot be split into
// host and cluster identifier.
var ErrMalformedIssuerURL = errors.New("malformed issuer url")

// ErrIssuerMismatch is returned when a cluster resolves an issuer other than
// the one pinned in the parameters.
var ErrIssuerMismatch = errors.New("issuer url does not match the pinned issuer")

// MalformedIssuerError carries the rejected URL.
type MalformedIssuerError struct {
	URL    string
	Reason string
}

func (e *MalformedIssuerError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedIssuerURL, e.URL, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedIssuerURL) match.
func (e *MalformedIssuerError) Is(target error) bool { return target == ErrMalformedIssuerURL }

// ProviderReference identifies a cluster's OIDC provider in both forms
// callers need.
type ProviderReference struct {
	// ARN is the federated principal, e.g.
	// arn:aws:iam::111122223333:oidc-provider/oidc.eks.us-east-1.amazonaws.com/id/ABC.
	ARN string
	// ResourcePath is the condition-key prefix, e.g.
	// oidc.eks.us-east-1.amazonaws.com/id/ABC. It never carries a scheme.
	ResourcePath string
	ClusterID    string
	Region       string
}

// Resolver derives provider references from issuer URLs. It holds no state
// besides its configuration, so equal inputs always produce equal outputs.
type Resolver struct {
	Partition string
	Region    string
	AccountID string
}

// Resolve splits issuerURL on IssuerMarker and rebuilds the provider ARN and
// resource path from the region and cluster identifier.
func (r Resolver) Resolve(issuerURL string) (ProviderReference, error) {
	host, clusterID, found := strings.Cut(issuerURL, IssuerMarker)
	if !found {
		return ProviderReference{}, &MalformedIssuerError{URL: issuerURL, Reason: "missing " + IssuerMarker + " marker"}
	}
	clusterID = strings.TrimSuffix(clusterID, "/")
	if clusterID == "" {
		return ProviderReference{}, &MalformedIssuerError{URL: issuerURL, Reason: "empty cluster identifier"}
	}
	if strings.ContainsAny(clusterID, "/?#* ") {
		return ProviderReference{}, &MalformedIssuerError{URL: issuerURL, Reason: "cluster identifier contains invalid characters"}
	}

	region := regionFromHost(host)
	if region == "" {
		region = r.Region
	}
	if region == "" {
		return ProviderReference{}, &MalformedIssuerError{URL: issuerURL, Reason: "region not present in host and not configured"}
	}
	if r.AccountID == "" {
		return ProviderReference{}, fmt.Errorf("resolve %q: account id is not configured", issuerURL)
	}

	partition := r.Partition
	if partition == "" {
		partition = DefaultPartition
	}

	path := ResourcePath(region, clusterID)
	providerARN := arn.ARN{
		Partition: partition,
		Service:   "iam",
		AccountID: r.AccountID,
		Resource:  oidcProviderResource + path,
	}

	return ProviderReference{
		ARN:          providerARN.String(),
		ResourcePath: path,
		ClusterID:    clusterID,
		Region:       region,
	}, nil
}

// ResourcePath builds the scheme-less provider path for a cluster.
func ResourcePath(region, clusterID string) string {
	return oidcHostPrefix + region + "." + IssuerMarker + clusterID
}

// ResourcePathFromARN extracts the resource path from an oidc-provider ARN.
func ResourcePathFromARN(providerARN string) (string, error) {
	parsed, err := arn.Parse(providerARN)
	if err != nil {
		return "", fmt.Errorf("parse provider arn: %w", err)
	}
	if parsed.Service != "iam" || !strings.HasPrefix(parsed.Resource, oidcProviderResource) {
		return "", fmt.Errorf("%q is not an oidc-provider arn", providerARN)
	}
	return strings.TrimPrefix(parsed.Resource, oidcProviderResource), nil
}

// regionFromHost reads <region> from hosts of the form
// [https://]oidc.eks.<region>. and returns "" for anything else.
func regionFromHost(host string) string {
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if !strings.HasPrefix(host, oidcHostPrefix) || !strings.HasSuffix(host, ".") {
		return ""
	}
	region := strings.TrimSuffix(strings.TrimPrefix(host, oidcHostPrefix), ".")
	if region == "" || strings.ContainsAny(region, "./") {
		return ""
	}
	return region
}
