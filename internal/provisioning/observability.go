package provisioning

import (
	"fmt"
	"maps"
	"sort"
	"time"

	"github.com/go-logr/logr"
)

// Logger is the minimal printf-style logging surface used by phases.
type Logger interface {
	Printf(format string, v ...any)
}

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress for a phase
	Progress(phase string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Phase     string            // Phase name (e.g., "cluster", "materialize")
	Message   string            // Human-readable message
	Resource  string            // Logical identifier if applicable
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
	Err       error
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceDeclared indicates a node was added to the graph.
	EventResourceDeclared EventType = "resource.declared"
	// EventResourceSubmitting indicates a node's request is being submitted.
	EventResourceSubmitting EventType = "resource.submitting"
	// EventResourceResolved indicates a node's attributes were written.
	EventResourceResolved EventType = "resource.resolved"
	// EventResourceFailed indicates a submission failed.
	EventResourceFailed EventType = "resource.failed"

	// EventValidationWarning indicates a validation warning.
	EventValidationWarning EventType = "validation.warning"
	// EventValidationError indicates a validation error.
	EventValidationError EventType = "validation.error"

	// EventRiskAccepted records an accepted policy finding.
	EventRiskAccepted EventType = "audit.risk_accepted"
	// EventTemporaryGrant records an access grant meant to be revoked.
	EventTemporaryGrant EventType = "audit.temporary_grant"

	// EventOutputExported indicates an output value is available.
	EventOutputExported EventType = "output.exported"

	// EventProgress indicates progress in a long-running operation.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	log           logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer writing to log.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{
		log:           log,
		contextFields: make(map[string]string),
	}
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...any) {
	o.log.Info(fmt.Sprintf(format, v...))
}

// Event implements Observer interface.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	fields := make(map[string]string, len(o.contextFields)+len(event.Fields))
	maps.Copy(fields, o.contextFields)
	maps.Copy(fields, event.Fields)

	kv := []any{"event", string(event.Type)}
	if event.Phase != "" {
		kv = append(kv, "phase", event.Phase)
	}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}

	switch {
	case event.Err != nil:
		o.log.Error(event.Err, event.Message, kv...)
	case event.Type == EventProgress:
		o.log.V(1).Info(event.Message, kv...)
	default:
		o.log.Info(event.Message, kv...)
	}
}

// Progress implements Observer interface.
func (o *LogObserver) Progress(phase string, current, total int) {
	percentage := 0
	if total > 0 {
		percentage = (current * 100) / total
	}
	o.Event(Event{
		Type:    EventProgress,
		Phase:   phase,
		Message: fmt.Sprintf("%d/%d (%d%%)", current, total, percentage),
	})
}

// WithFields implements Observer interface.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := maps.Clone(o.contextFields)
	maps.Copy(newFields, fields)
	return &LogObserver{
		log:           o.log,
		contextFields: newFields,
	}
}

// Helper functions for common events

// LogPhaseStart logs a phase start event.
func LogPhaseStart(observer Observer, phase string) {
	observer.Event(Event{
		Type:    EventPhaseStarted,
		Phase:   phase,
		Message: "starting",
	})
}

// LogPhaseComplete logs a phase completion event.
func LogPhaseComplete(observer Observer, phase string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogPhaseFailed logs a phase failure event.
func LogPhaseFailed(observer Observer, phase string, err error) {
	observer.Event(Event{
		Type:    EventPhaseFailed,
		Phase:   phase,
		Message: "failed",
		Err:     err,
	})
}

// LogResourceSubmitting logs a submission start event.
func LogResourceSubmitting(observer Observer, phase, kind, id string) {
	observer.Event(Event{
		Type:     EventResourceSubmitting,
		Phase:    phase,
		Resource: id,
		Message:  fmt.Sprintf("submitting %s", kind),
		Fields: map[string]string{
			"kind": kind,
		},
	})
}

// LogResourceResolved logs a node whose attributes were written.
func LogResourceResolved(observer Observer, phase, kind, id string, duration time.Duration) {
	observer.Event(Event{
		Type:     EventResourceResolved,
		Phase:    phase,
		Resource: id,
		Message:  fmt.Sprintf("%s resolved", kind),
		Fields: map[string]string{
			"kind":     kind,
			"duration": duration.Round(time.Millisecond).String(),
		},
	})
}

// LogResourceFailed logs a failed submission.
func LogResourceFailed(observer Observer, phase, kind, id string, err error) {
	observer.Event(Event{
		Type:     EventResourceFailed,
		Phase:    phase,
		Resource: id,
		Message:  fmt.Sprintf("%s failed", kind),
		Err:      err,
		Fields: map[string]string{
			"kind": kind,
		},
	})
}

// LogRiskAccepted records an accepted policy finding.
func LogRiskAccepted(observer Observer, id, scope, reason string) {
	observer.Event(Event{
		Type:    EventRiskAccepted,
		Phase:   "validation",
		Message: reason,
		Fields: map[string]string{
			"finding": id,
			"scope":   scope,
		},
	})
}

// LogTemporaryGrant records an access grant that must be revoked after
// first use.
func LogTemporaryGrant(observer Observer, phase, id, principal string) {
	observer.Event(Event{
		Type:     EventTemporaryGrant,
		Phase:    phase,
		Resource: id,
		Message:  "temporary cluster admin granted, revoke after first use",
		Fields: map[string]string{
			"principal": principal,
		},
	})
}

// LogOutputExported logs an exported output value.
func LogOutputExported(observer Observer, key, value string) {
	observer.Event(Event{
		Type:     EventOutputExported,
		Phase:    "outputs",
		Resource: key,
		Message:  "output exported",
		Fields: map[string]string{
			"value": value,
		},
	})
}
