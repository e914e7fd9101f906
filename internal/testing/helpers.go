package testing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/imamik/eksgraph/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// RecordingObserver is a provisioning.Observer that keeps every event.
type RecordingObserver struct {
	mu     sync.Mutex
	events []provisioning.Event
	lines  []string
}

// Printf implements provisioning.Logger.
func (o *RecordingObserver) Printf(format string, _ ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, format)
}

// Event implements provisioning.Observer.
func (o *RecordingObserver) Event(e provisioning.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

// Progress implements provisioning.Observer.
func (o *RecordingObserver) Progress(string, int, int) {}

// WithFields implements provisioning.Observer. Scoped observers record into
// the same log.
func (o *RecordingObserver) WithFields(map[string]string) provisioning.Observer { return o }

// Events returns the recorded events of type t, or all when t is empty.
func (o *RecordingObserver) Events(t provisioning.EventType) []provisioning.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []provisioning.Event
	for _, e := range o.events {
		if t == "" || e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
