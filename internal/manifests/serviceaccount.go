package manifests

import (
	"bytes"
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/eksgraph/internal/identity"
	"github.com/imamik/eksgraph/internal/util/labels"
)

// RoleARNAnnotation tells the pod identity webhook which role to project.
const RoleARNAnnotation = "eks.amazonaws.com/role-arn"

// Binding is a resolved trust binding.
type Binding struct {
	Name      string
	Principal identity.PrincipalPath
	RoleARN   string
}

// ServiceAccount returns the service account for b.
func ServiceAccount(stack string, b Binding) *corev1.ServiceAccount {
	return &corev1.ServiceAccount{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "ServiceAccount"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      b.Principal.ServiceAccount,
			Namespace: b.Principal.Namespace,
			Labels: labels.NewLabelBuilder(stack).
				WithComponent(b.Name).
				Build(),
			Annotations: map[string]string{RoleARNAnnotation: b.RoleARN},
		},
	}
}

// ServiceAccounts returns one service account per binding, sorted by
// namespace and name.
func ServiceAccounts(stack string, bindings []Binding) []*corev1.ServiceAccount {
	out := make([]*corev1.ServiceAccount, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, ServiceAccount(stack, b))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Render marshals the service accounts as a multi-document YAML stream.
func Render(accounts []*corev1.ServiceAccount) ([]byte, error) {
	var buf bytes.Buffer
	for i, sa := range accounts {
		out, err := sigsyaml.Marshal(sa)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal service account %s/%s: %w", sa.Namespace, sa.Name, err)
		}
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}
