package provisioning

import (
	"errors"

	"github.com/imamik/eksgraph/internal/graph"
	"github.com/imamik/eksgraph/internal/identity"
	"github.com/imamik/eksgraph/internal/provisioning/reachability"
)

var (
	// ErrMissingPrerequisite is returned when a component is declared
	// before something it depends on.
	ErrMissingPrerequisite = errors.New("missing prerequisite")
	// ErrRuleOutOfScope is returned for rule requests a component does not
	// accept.
	ErrRuleOutOfScope = errors.New("rule out of scope")
)

// IsStructural reports whether err describes a defect in the composition
// itself rather than a provider failure. Structural errors are raised
// before anything is submitted.
func IsStructural(err error) bool {
	var ve *ValidationFailedError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, graph.ErrCyclicDependency),
		errors.Is(err, graph.ErrUnknownNode),
		errors.Is(err, graph.ErrDuplicateNode),
		errors.Is(err, identity.ErrMalformedIssuerURL),
		errors.Is(err, identity.ErrInvalidPrincipalPath),
		errors.Is(err, reachability.ErrInvalidRule),
		errors.Is(err, ErrMissingPrerequisite),
		errors.Is(err, ErrRuleOutOfScope):
		return true
	}
	return false
}
