package identity

import (
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"
)

// ErrInvalidPrincipalPath is returned for principal paths that are not
// exactly "namespace/serviceAccount".
var ErrInvalidPrincipalPath = errors.New("invalid principal path")

const serviceAccountSubjectPrefix = "system:serviceaccount:"

// PrincipalPath names the one workload identity a trust binding admits.
type PrincipalPath struct {
	Namespace      string
	ServiceAccount string
}

// ParsePrincipalPath parses "namespace/serviceAccount". Both segments must be
// present and valid Kubernetes names; wildcards are rejected.
func ParsePrincipalPath(s string) (PrincipalPath, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return PrincipalPath{}, fmt.Errorf("%w %q: expected namespace/serviceAccount", ErrInvalidPrincipalPath, s)
	}
	return NewPrincipalPath(parts[0], parts[1])
}

// NewPrincipalPath validates both segments.
func NewPrincipalPath(namespace, serviceAccount string) (PrincipalPath, error) {
	p := PrincipalPath{Namespace: namespace, ServiceAccount: serviceAccount}
	if namespace == "" {
		return PrincipalPath{}, fmt.Errorf("%w %q: missing namespace", ErrInvalidPrincipalPath, p)
	}
	if serviceAccount == "" {
		return PrincipalPath{}, fmt.Errorf("%w %q: missing service account", ErrInvalidPrincipalPath, p)
	}
	if strings.ContainsAny(namespace+serviceAccount, "*?") {
		return PrincipalPath{}, fmt.Errorf("%w %q: wildcards are not allowed", ErrInvalidPrincipalPath, p)
	}
	if msgs := validation.IsDNS1123Label(namespace); len(msgs) > 0 {
		return PrincipalPath{}, fmt.Errorf("%w %q: namespace: %s", ErrInvalidPrincipalPath, p, strings.Join(msgs, "; "))
	}
	if msgs := validation.IsDNS1123Subdomain(serviceAccount); len(msgs) > 0 {
		return PrincipalPath{}, fmt.Errorf("%w %q: service account: %s", ErrInvalidPrincipalPath, p, strings.Join(msgs, "; "))
	}
	return p, nil
}

// String returns "namespace/serviceAccount".
func (p PrincipalPath) String() string { return p.Namespace + "/" + p.ServiceAccount }

// Subject returns the token subject the workload presents.
func (p PrincipalPath) Subject() string {
	return serviceAccountSubjectPrefix + p.Namespace + ":" + p.ServiceAccount
}
