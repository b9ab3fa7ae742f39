package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTP = errors.New("dial tcp: connection refused")

func fallar() error { return errSMTP }
func enviar() error { return nil }

func testBreaker() (*CircuitBreaker, *time.Time) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", FailureThreshold: 3, SuccessThreshold: 2, OpenTimeout: time.Minute})
	ahora := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return ahora }
	return cb, &ahora
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb, _ := testBreaker()

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(fallar), errSMTP)
	}
	// A success resets the streak.
	require.NoError(t, cb.Execute(enviar))
	for i := 0; i < 2; i++ {
		_ = cb.Execute(fallar)
	}
	assert.Equal(t, CBClosed, cb.State())

	_ = cb.Execute(fallar)
	assert.Equal(t, CBOpen, cb.State())

	llamado := false
	err := cb.Execute(func() error { llamado = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, llamado)
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb, ahora := testBreaker()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fallar)
	}
	require.Equal(t, CBOpen, cb.State())

	*ahora = ahora.Add(time.Minute)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(enviar))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(enviar))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, ahora := testBreaker()
	for i := 0; i < 3; i++ {
		_ = cb.Execute(fallar)
	}
	*ahora = ahora.Add(90 * time.Second)
	require.Equal(t, CBHalfOpen, cb.State())

	_ = cb.Execute(fallar)
	assert.Equal(t, CBOpen, cb.State())

	*ahora = ahora.Add(30 * time.Second)
	assert.Equal(t, CBOpen, cb.State(), "cool-down restarts on reopen")
}

func TestCBState_String(t *testing.T) {
	assert.Equal(t, "closed", CBClosed.String())
	assert.Equal(t, "open", CBOpen.String())
	assert.Equal(t, "half-open", CBHalfOpen.String())
	assert.Equal(t, "unknown", CBState(9).String())
}
