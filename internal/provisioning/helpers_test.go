package provisioning

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imamik/eksgraph/internal/config"
)

// mockObserver records events for assertions.
type mockObserver struct {
	mu       sync.Mutex
	events   []Event
	logs     []string
	progress []int
}

func (m *mockObserver) Printf(format string, _ ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, format)
}

func (m *mockObserver) Event(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *mockObserver) Progress(_ string, current, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = append(m.progress, current)
}

func (m *mockObserver) WithFields(map[string]string) Observer { return m }

func (m *mockObserver) ofType(t EventType) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func testParams(t *testing.T, overrides map[string]string) *config.Parameters {
	t.Helper()
	raw := map[string]string{
		config.KeyClusterIdentifier: "posit",
		config.KeyDatabaseName:      "positdb",
		config.KeyDatabaseUsername:  "posit",
		config.KeyAccountID:         "111122223333",
	}
	for k, v := range overrides {
		raw[k] = v
	}
	p, err := config.Build(raw, nil)
	require.NoError(t, err)
	return p
}
