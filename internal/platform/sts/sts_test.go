package sts

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sts.GetCallerIdentityOutput), args.Error(1)
}

func TestPrincipalARN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "assumed role", in: "arn:aws:sts::111122223333:assumed-role/Admin/alice", want: "arn:aws:iam::111122223333:role/Admin"},
		{name: "gov partition", in: "arn:aws-us-gov:sts::111122223333:assumed-role/Ops/bob", want: "arn:aws-us-gov:iam::111122223333:role/Ops"},
		{name: "iam user", in: "arn:aws:iam::111122223333:user/carol", want: "arn:aws:iam::111122223333:user/carol"},
		{name: "iam role", in: "arn:aws:iam::111122223333:role/path/Deploy", want: "arn:aws:iam::111122223333:role/path/Deploy"},
		{name: "root", in: "arn:aws:iam::111122223333:root", wantErr: true},
		{name: "federated user", in: "arn:aws:sts::111122223333:federated-user/dave", wantErr: true},
		{name: "not an arn", in: "alice", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PrincipalARN(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnexpectedARN)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCallerIdentity(t *testing.T) {
	t.Parallel()

	api := &mockAPI{}
	api.On("GetCallerIdentity", mock.Anything, mock.Anything).Return(&sts.GetCallerIdentityOutput{
		Account: aws.String("111122223333"),
		Arn:     aws.String("arn:aws:sts::111122223333:assumed-role/Admin/alice"),
	}, nil)

	id, err := NewClientWithAPI(api).CallerIdentity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "111122223333", id.AccountID)
	assert.Equal(t, "arn:aws:iam::111122223333:role/Admin", id.PrincipalARN)
	api.AssertExpectations(t)
}

func TestCallerIdentity_Error(t *testing.T) {
	t.Parallel()

	api := &mockAPI{}
	api.On("GetCallerIdentity", mock.Anything, mock.Anything).Return(nil, errors.New("expired token"))

	_, err := NewClientWithAPI(api).CallerIdentity(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired token")
}
