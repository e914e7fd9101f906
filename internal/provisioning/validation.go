package provisioning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/imamik/eksgraph/internal/config"
	"github.com/imamik/eksgraph/internal/identity"
)

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a parameter validation error or warning.
type ValidationError struct {
	Field    string // Parameter that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
	Err      error
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// Unwrap returns the underlying cause, if any.
func (ve ValidationError) Unwrap() error { return ve.Err }

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == SeverityError
}

// ValidationFailedError aggregates every error-level finding.
type ValidationFailedError struct {
	Findings []ValidationError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, 0, len(e.Findings))
	for _, f := range e.Findings {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("parameter validation failed:\n  %s", strings.Join(msgs, "\n  "))
}

// Unwrap exposes each finding to errors.Is and errors.As.
func (e *ValidationFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Findings))
	for _, f := range e.Findings {
		errs = append(errs, f)
	}
	return errs
}

// ValidationPhase implements the Phase interface for pre-flight validation.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	if ctx.Params == nil {
		return errors.New("no parameters")
	}

	findings := Validate(ctx.Params)
	ctx.State.Findings = append(ctx.State.Findings, findings...)

	var errs []ValidationError
	for _, ve := range findings {
		if ve.IsError() {
			errs = append(errs, ve)
			ctx.Observer.Event(Event{
				Type:     EventValidationError,
				Phase:    vp.Name(),
				Resource: ve.Field,
				Message:  ve.Message,
				Err:      ve.Err,
			})
			continue
		}
		ctx.Observer.Event(Event{
			Type:     EventValidationWarning,
			Phase:    vp.Name(),
			Resource: ve.Field,
			Message:  ve.Message,
		})
	}

	if len(errs) > 0 {
		return &ValidationFailedError{Findings: errs}
	}

	for _, r := range ctx.Params.AcceptedRisks {
		LogRiskAccepted(ctx.Observer, r.ID, r.Scope, r.Reason)
	}
	return nil
}

// Validate runs all checks and returns any errors or warnings.
func Validate(p *config.Parameters) []ValidationError {
	var errs []ValidationError

	if err := p.Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:    "parameters",
			Message:  err.Error(),
			Severity: SeverityError,
			Err:      err,
		})
	}

	for _, key := range p.UnknownKeys {
		errs = append(errs, ValidationError{
			Field:    key,
			Message:  "unknown parameter is ignored",
			Severity: SeverityWarning,
		})
	}

	// --- Principal paths ---

	for _, sa := range []struct{ field, name string }{
		{config.KeyEFSCSIDriverServiceAccountName, p.EFSCSIDriverServiceAccountName},
		{config.KeyVPCCNIDriverServiceAccountName, p.VPCCNIDriverServiceAccountName},
		{config.KeyALBControllerServiceAccountName, p.ALBControllerServiceAccountName},
	} {
		if _, err := identity.ParsePrincipalPath(config.PrincipalPath(sa.name)); err != nil {
			errs = append(errs, ValidationError{
				Field:    sa.field,
				Message:  err.Error(),
				Severity: SeverityError,
				Err:      err,
			})
		}
	}

	// --- Identity ---

	if p.ClusterIssuerURL != "" {
		resolver := identity.Resolver{Partition: p.Partition, Region: p.Region, AccountID: p.AccountID}
		if _, err := resolver.Resolve(p.ClusterIssuerURL); err != nil {
			errs = append(errs, ValidationError{
				Field:    config.KeyClusterIssuerURL,
				Message:  err.Error(),
				Severity: SeverityError,
				Err:      err,
			})
		}
	}

	switch {
	case p.OperatorIdentity == "":
		errs = append(errs, ValidationError{
			Field:    config.KeyOperatorIdentity,
			Message:  "no operator identity given, temporary cluster admin access is skipped",
			Severity: SeverityWarning,
		})
	case !arn.IsARN(p.OperatorIdentity):
		errs = append(errs, ValidationError{
			Field:    config.KeyOperatorIdentity,
			Message:  fmt.Sprintf("%q is not an ARN", p.OperatorIdentity),
			Severity: SeverityError,
		})
	default:
		errs = append(errs, ValidationError{
			Field:    config.KeyOperatorIdentity,
			Message:  "operator identity receives temporary cluster admin access, revoke it after first use",
			Severity: SeverityWarning,
		})
	}

	if p.AccountID == "" {
		errs = append(errs, ValidationError{
			Field:    config.KeyAccountID,
			Message:  "account id not given, it is taken from the cluster ARN once known",
			Severity: SeverityWarning,
		})
	}

	return errs
}
