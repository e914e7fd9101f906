package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/platform/sts"
)

// ParameterSource selects where parameters come from.
type ParameterSource struct {
	File string
	Set  []string
	// OperatorFromCaller fills operatorIdentity from the caller identity
	// when the parameters leave it empty.
	OperatorFromCaller bool
}

// callerResolver matches sts.Client.
type callerResolver interface {
	CallerIdentity(ctx context.Context) (*sts.Identity, error)
}

// Factory function variables - can be replaced in tests.
var (
	// loadParameterFile loads a YAML parameter file.
	loadParameterFile = config.LoadFile

	// buildParameters builds parameters from --set values alone.
	buildParameters = config.Build

	// newCallerResolver creates an STS-backed caller resolver.
	newCallerResolver = func(ctx context.Context, region string) (callerResolver, error) {
		client, err := sts.NewClient(ctx, region)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
)

// loadParameters loads, defaults and validates parameters.
func loadParameters(ctx context.Context, src ParameterSource) (*config.Parameters, error) {
	overrides, err := config.ParseSetFlags(src.Set)
	if err != nil {
		return nil, err
	}

	var params *config.Parameters
	if src.File != "" {
		params, err = loadParameterFile(src.File, overrides)
	} else {
		params, err = buildParameters(overrides, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}

	if len(params.UnknownKeys) > 0 {
		logr.FromContextOrDiscard(ctx).Info("ignoring unknown parameters", "keys", params.UnknownKeys)
	}

	if src.OperatorFromCaller && params.OperatorIdentity == "" {
		if err := resolveOperator(ctx, params); err != nil {
			return nil, err
		}
	}
	return params, nil
}

// resolveOperator sets the operator identity from the caller. The account
// is taken from the caller too when the parameters leave it empty.
func resolveOperator(ctx context.Context, params *config.Parameters) error {
	resolver, err := newCallerResolver(ctx, params.Region)
	if err != nil {
		return fmt.Errorf("failed to create STS client: %w", err)
	}
	id, err := resolver.CallerIdentity(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve operator identity: %w", err)
	}
	params.OperatorIdentity = id.PrincipalARN
	if params.AccountID == "" {
		params.AccountID = id.AccountID
	}
	logr.FromContextOrDiscard(ctx).Info("operator identity from caller", "principal", id.PrincipalARN)
	return nil
}
