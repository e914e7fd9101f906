package sts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ErrUnexpectedARN is returned when the caller ARN is not an IAM user or role.
var ErrUnexpectedARN = errors.New("unexpected caller ARN")

// API is the subset of the STS client in use.
type API interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Identity is the resolved caller.
type Identity struct {
	AccountID string
	// ARN is the raw caller ARN, which for assumed roles names the session.
	ARN string
	// PrincipalARN is the IAM user or role ARN usable as an access entry
	// principal.
	PrincipalARN string
}

// Client resolves caller identities.
type Client struct {
	api API
}

// NewClient loads the default AWS configuration for region.
func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Client{api: sts.NewFromConfig(cfg)}, nil
}

// NewClientWithAPI wraps an existing STS implementation.
func NewClientWithAPI(api API) *Client {
	return &Client{api: api}
}

// CallerIdentity returns who the current credentials belong to.
func (c *Client) CallerIdentity(ctx context.Context) (*Identity, error) {
	out, err := c.api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get caller identity: %w", err)
	}
	raw := aws.ToString(out.Arn)
	principal, err := PrincipalARN(raw)
	if err != nil {
		return nil, err
	}
	return &Identity{
		AccountID:    aws.ToString(out.Account),
		ARN:          raw,
		PrincipalARN: principal,
	}, nil
}

// PrincipalARN maps a caller ARN to its IAM principal. An assumed-role
// session arn:aws:sts::123:assumed-role/Admin/alice becomes
// arn:aws:iam::123:role/Admin. Role paths are not recoverable from the
// session ARN and are dropped.
func PrincipalARN(callerARN string) (string, error) {
	parsed, err := arn.Parse(callerARN)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUnexpectedARN, callerARN, err)
	}
	switch parsed.Service {
	case "iam":
		if strings.HasPrefix(parsed.Resource, "user/") || strings.HasPrefix(parsed.Resource, "role/") {
			return callerARN, nil
		}
	case "sts":
		parts := strings.Split(parsed.Resource, "/")
		if len(parts) == 3 && parts[0] == "assumed-role" && parts[1] != "" {
			return arn.ARN{
				Partition: parsed.Partition,
				Service:   "iam",
				AccountID: parsed.AccountID,
				Resource:  "role/" + parts[1],
			}.String(), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnexpectedARN, callerARN)
}
