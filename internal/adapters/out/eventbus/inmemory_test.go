package eventbus

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/stevedore/internal/adapters/out/telemetry"
	"github.com/bnema/stevedore/internal/domain"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []domain.Event
	only   domain.EventType
	err    error
}

func (h *recordingHandler) Handle(_ context.Context, event domain.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) CanHandle(t domain.EventType) bool {
	return h.only == "" || h.only == t
}

func (h *recordingHandler) received() []domain.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.Event(nil), h.events...)
}

func TestInMemory_PublishDelivers(t *testing.T) {
	bus := NewInMemory(10, zerolog.New(io.Discard))
	all := &recordingHandler{}
	onlyAdds := &recordingHandler{only: domain.EventServiceAdded}
	require.NoError(t, bus.Subscribe(all))
	require.NoError(t, bus.Subscribe(onlyAdds))
	require.NoError(t, bus.Start())

	require.NoError(t, bus.Publish(domain.EventServiceAdded, "shop", "web"))
	require.NoError(t, bus.Publish(domain.EventNetworkDeleted, "shop", "backend"))
	require.NoError(t, bus.Stop())

	got := all.received()
	require.Len(t, got, 2)
	assert.Equal(t, domain.EventServiceAdded, got[0].Type)
	assert.Equal(t, "shop", got[0].Project)
	assert.Equal(t, "web", got[0].Subject)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
	assert.Equal(t, domain.EventNetworkDeleted, got[1].Type)

	require.Len(t, onlyAdds.received(), 1)
}

func TestInMemory_HandlerErrorDoesNotStopBus(t *testing.T) {
	bus := NewInMemory(10, zerolog.New(io.Discard))
	failing := &recordingHandler{err: errors.New("boom")}
	require.NoError(t, bus.Subscribe(failing))
	require.NoError(t, bus.Start())

	require.NoError(t, bus.Publish(domain.EventLogin, "", "admin"))
	require.NoError(t, bus.Publish(domain.EventLogout, "", "admin"))
	require.NoError(t, bus.Stop())

	assert.Len(t, failing.received(), 2)
}

func TestInMemory_PublishAfterStop(t *testing.T) {
	bus := NewInMemory(1, zerolog.New(io.Discard))
	require.NoError(t, bus.Start())
	require.NoError(t, bus.Stop())

	// Fill the buffer so the only ready case is the stopped context.
	bus.eventChan <- domain.Event{}
	err := bus.Publish(domain.EventLogin, "", "admin")
	assert.Error(t, err)
}

func TestInMemory_StartTwice(t *testing.T) {
	bus := NewInMemory(1, zerolog.New(io.Discard))
	require.NoError(t, bus.Start())
	assert.Error(t, bus.Start())
	require.NoError(t, bus.Stop())
}

func TestInMemory_MetricsAndAudit(t *testing.T) {
	m, err := telemetry.NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	var buf bytes.Buffer
	bus := NewInMemory(10, zerolog.New(io.Discard))
	bus.SetMetrics(m)
	require.NoError(t, bus.Subscribe(NewAuditLogger(zerolog.New(&buf))))
	require.NoError(t, bus.Subscribe(NewOperationCounter(m)))
	require.NoError(t, bus.Start())

	require.NoError(t, bus.Publish(domain.EventServiceStarted, "shop", "web"))
	require.NoError(t, bus.Publish(domain.EventLoginFailed, "", "mallory"))
	require.NoError(t, bus.Stop())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("service.started")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsProcessed.WithLabelValues("service.started")))

	out := buf.String()
	assert.Contains(t, out, `"event":"service.started"`)
	assert.Contains(t, out, `"project":"shop"`)
	assert.Contains(t, out, `"subject":"mallory"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestInMemory_StopWithoutStart(t *testing.T) {
	bus := NewInMemory(1, zerolog.New(io.Discard))
	done := make(chan error, 1)
	go func() { done <- bus.Stop() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a bus that was never started")
	}
}
