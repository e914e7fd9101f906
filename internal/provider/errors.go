package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"github.com/imamik/eksgraph/internal/graph"
)

var (
	// ErrResourceConflict means the resource exists in a conflicting state.
	ErrResourceConflict = errors.New("resource conflict")
	// ErrQuotaExceeded means an account or service limit was hit.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrPermissionDenied means the caller lacks permission.
	ErrPermissionDenied = errors.New("permission denied")
)

var (
	conflictCodes = map[string]struct{}{
		"ResourceInUseException":         {},
		"ResourceConflictException":      {},
		"ConflictException":              {},
		"EntityAlreadyExists":            {},
		"ResourceAlreadyExistsException": {},
		"InvalidGroup.Duplicate":         {},
		"InvalidPermission.Duplicate":    {},
		"DBClusterAlreadyExistsFault":    {},
		"FileSystemAlreadyExists":        {},
		"AccessPointAlreadyExists":       {},
	}
	quotaCodes = map[string]struct{}{
		"LimitExceeded":                      {},
		"LimitExceededException":             {},
		"ServiceQuotaExceededException":      {},
		"VpcLimitExceeded":                   {},
		"RulesPerSecurityGroupLimitExceeded": {},
		"DBClusterQuotaExceededFault":        {},
		"FileSystemLimitExceeded":            {},
		"AccessPointLimitExceeded":           {},
	}
	permissionCodes = map[string]struct{}{
		"AccessDenied":          {},
		"AccessDeniedException": {},
		"UnauthorizedOperation": {},
		"AuthorizationError":    {},
	}
)

// Classify maps a provider failure onto ErrResourceConflict,
// ErrQuotaExceeded or ErrPermissionDenied. It returns nil when the error
// matches none of them.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{ErrResourceConflict, ErrQuotaExceeded, ErrPermissionDenied} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	code := apiErr.ErrorCode()
	if _, ok := conflictCodes[code]; ok {
		return ErrResourceConflict
	}
	if _, ok := quotaCodes[code]; ok {
		return ErrQuotaExceeded
	}
	if _, ok := permissionCodes[code]; ok {
		return ErrPermissionDenied
	}
	return nil
}

// SubmitError is a failed submission. It matches its classification and
// the underlying error with errors.Is.
type SubmitError struct {
	NodeID string
	Kind   graph.Kind
	Class  error
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Class != nil {
		return fmt.Sprintf("submit %s %s: %v: %v", e.Kind, e.NodeID, e.Class, e.Err)
	}
	return fmt.Sprintf("submit %s %s: %v", e.Kind, e.NodeID, e.Err)
}

// Unwrap exposes both the classification and the cause.
func (e *SubmitError) Unwrap() []error {
	if e.Class != nil {
		return []error{e.Class, e.Err}
	}
	return []error{e.Err}
}

// Wrap classifies err and attaches the request's node identity. The result
// also carries a graph.NodeError so graph.NodeIDOf finds the node.
func Wrap(req Request, err error) error {
	if err == nil {
		return nil
	}
	return &graph.NodeError{
		NodeID: req.ID,
		Err:    &SubmitError{NodeID: req.ID, Kind: req.Kind, Class: Classify(err), Err: err},
	}
}

// ResultLabel returns the metrics label for a submission outcome.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrResourceConflict):
		return "conflict"
	case errors.Is(err, ErrQuotaExceeded):
		return "quota_exceeded"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	default:
		return "error"
	}
}
