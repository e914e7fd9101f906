package manifests

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/yaml"

	"github.com/imamik/eksgraph/internal/identity"
	"github.com/imamik/eksgraph/internal/util/labels"
)

func decode(t *testing.T, data []byte) []corev1.ServiceAccount {
	t.Helper()
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), 4096)
	var out []corev1.ServiceAccount
	for {
		var sa corev1.ServiceAccount
		err := decoder.Decode(&sa)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		out = append(out, sa)
	}
	return out
}

func TestServiceAccount(t *testing.T) {
	t.Parallel()

	sa := ServiceAccount("posit-sce", Binding{
		Name:      "efs-csi",
		Principal: identity.PrincipalPath{Namespace: "kube-system", ServiceAccount: "efs-csi-controller-sa"},
		RoleARN:   "arn:aws:iam::111122223333:role/posit-efs-csi-irsa",
	})

	assert.Equal(t, "ServiceAccount", sa.Kind)
	assert.Equal(t, "kube-system", sa.Namespace)
	assert.Equal(t, "efs-csi-controller-sa", sa.Name)
	assert.Equal(t, "arn:aws:iam::111122223333:role/posit-efs-csi-irsa", sa.Annotations[RoleARNAnnotation])
	assert.Equal(t, "efs-csi", sa.Labels[labels.KeyComponent])
	assert.Equal(t, "posit-sce", sa.Labels[labels.KeyStack])
}

func TestRender(t *testing.T) {
	t.Parallel()

	accounts := ServiceAccounts("posit-sce", []Binding{
		{Name: "vpc-cni", Principal: identity.PrincipalPath{Namespace: "kube-system", ServiceAccount: "aws-node"}, RoleARN: "arn:aws:iam::111122223333:role/a"},
		{Name: "alb", Principal: identity.PrincipalPath{Namespace: "ingress", ServiceAccount: "alb"}, RoleARN: "arn:aws:iam::111122223333:role/b"},
	})
	require.Len(t, accounts, 2)
	assert.Equal(t, "ingress", accounts[0].Namespace)

	data, err := Render(accounts)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(data, []byte("---\n")))

	decoded := decode(t, data)
	require.Len(t, decoded, 2)
	assert.Equal(t, "alb", decoded[0].Name)
	assert.Equal(t, "aws-node", decoded[1].Name)
	assert.Equal(t, "arn:aws:iam::111122223333:role/a", decoded[1].Annotations[RoleARNAnnotation])
}

func TestRender_Empty(t *testing.T) {
	t.Parallel()

	data, err := Render(nil)
	require.NoError(t, err)
	assert.Empty(t, data)
}
