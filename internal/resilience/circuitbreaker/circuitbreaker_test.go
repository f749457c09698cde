package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          20 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig(), nil)

	require.NotNil(t, cb)
	assert.Equal(t, "test-circuit", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.False(t, cb.IsOpen())
}

func TestExecute_Success(t *testing.T) {
	cb := New(testConfig(), nil)

	got, err := Execute(cb, func() (string, error) {
		return "menu", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "menu", got)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestExecute_FailurePassesThrough(t *testing.T) {
	cb := New(testConfig(), nil)
	testErr := errors.New("provider down")

	_, err := Execute(cb, func() (string, error) {
		return "", testErr
	})

	assert.ErrorIs(t, err, testErr)
	assert.NotErrorIs(t, err, ErrOpen)
}

func TestExecute_TripsOpen(t *testing.T) {
	cb := New(testConfig(), nil)
	testErr := errors.New("provider down")

	for i := 0; i < 3; i++ {
		_, _ = Execute(cb, func() (int, error) { return 0, testErr })
	}
	require.True(t, cb.IsOpen())

	called := false
	_, err := Execute(cb, func() (int, error) {
		called = true
		return 1, nil
	})

	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called, "open breaker must not invoke the function")
}

func TestExecute_BelowMinRequestsStaysClosed(t *testing.T) {
	cb := New(testConfig(), nil)

	for i := 0; i < 2; i++ {
		_, _ = Execute(cb, func() (int, error) { return 0, errors.New("fail") })
	}

	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCompletionConfig(t *testing.T) {
	cfg := CompletionConfig("openai")

	assert.Equal(t, "openai-api", cfg.Name)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, uint32(5), cfg.MinRequests)
	assert.InDelta(t, 0.6, cfg.FailureThreshold, 0.0001)
}
