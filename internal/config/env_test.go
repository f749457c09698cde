package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("MENU_TEST_STRING", "value")
	assert.Equal(t, "value", GetEnvString("MENU_TEST_STRING", "default"))

	t.Setenv("MENU_TEST_STRING", "  ")
	assert.Equal(t, "default", GetEnvString("MENU_TEST_STRING", "default"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 42},
		{name: "valid", value: "7", want: 7},
		{name: "negative", value: "-3", want: -3},
		{name: "invalid", value: "seven", want: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MENU_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("MENU_TEST_INT", 42))
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("MENU_TEST_FLOAT", "0.2")
	assert.InDelta(t, 0.2, GetEnvFloat("MENU_TEST_FLOAT", 0.7), 1e-9)

	t.Setenv("MENU_TEST_FLOAT", "warm")
	assert.InDelta(t, 0.7, GetEnvFloat("MENU_TEST_FLOAT", 0.7), 1e-9)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "", want: true},
		{value: "true", want: true},
		{value: "1", want: true},
		{value: "false", want: false},
		{value: "0", want: false},
		{value: "yes", want: true},
	}

	for _, tt := range tests {
		t.Setenv("MENU_TEST_BOOL", tt.value)
		assert.Equal(t, tt.want, GetEnvBool("MENU_TEST_BOOL", true), "value %q", tt.value)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("MENU_TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("MENU_TEST_DURATION", time.Minute))

	t.Setenv("MENU_TEST_DURATION", "soon")
	assert.Equal(t, time.Minute, GetEnvDuration("MENU_TEST_DURATION", time.Minute))
}

func TestRequireEnv(t *testing.T) {
	t.Setenv("MENU_TEST_REQUIRED", "secret")
	v, err := RequireEnv("MENU_TEST_REQUIRED")
	require.NoError(t, err)
	assert.Equal(t, "secret", v)

	t.Setenv("MENU_TEST_REQUIRED", "")
	_, err = RequireEnv("MENU_TEST_REQUIRED")
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "MENU_TEST_REQUIRED")
}
