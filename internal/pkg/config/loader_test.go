package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvString(t *testing.T) {
	t.Run("with value", func(t *testing.T) {
		t.Setenv("TEST_STRING", "custom")
		assert.Equal(t, "custom", LoadEnvString("TEST_STRING", "default"))
	})

	t.Run("empty value uses default", func(t *testing.T) {
		t.Setenv("TEST_STRING", "")
		assert.Equal(t, "default", LoadEnvString("TEST_STRING", "default"))
	})
}

func TestLoadEnvWithFallback_BaseURL(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		expected     string
		wantFallback bool
	}{
		{name: "valid url", value: "http://api.example.com/api", expected: "http://api.example.com/api"},
		{name: "unset", value: "", expected: "http://localhost:8000/api"},
		{name: "missing scheme", value: "localhost:8000", expected: "http://localhost:8000/api", wantFallback: true},
		{name: "ftp scheme", value: "ftp://example.com", expected: "http://localhost:8000/api", wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BASE_URL", tt.value)

			result := LoadEnvWithFallback("TEST_BASE_URL", "http://localhost:8000/api", ValidateBaseURL)

			assert.Equal(t, tt.expected, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantFallback {
				require.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "Invalid TEST_BASE_URL=")
				assert.Contains(t, result.Warnings[0], "falling back to default 'http://localhost:8000/api'")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestLoadEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		expected     time.Duration
		wantFallback bool
	}{
		{name: "valid", value: "45s", expected: 45 * time.Second},
		{name: "compound", value: "1m30s", expected: 90 * time.Second},
		{name: "unset", value: "", expected: 15 * time.Second},
		{name: "invalid format", value: "soon", expected: 15 * time.Second, wantFallback: true},
		{name: "zero rejected", value: "0s", expected: 15 * time.Second, wantFallback: true},
		{name: "negative rejected", value: "-5s", expected: 15 * time.Second, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)

			result := LoadEnvDuration("TEST_DURATION", 15*time.Second, ValidatePositiveDuration)

			assert.Equal(t, tt.expected, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1, 10) }

	tests := []struct {
		name         string
		value        string
		expected     int
		wantFallback bool
	}{
		{name: "valid", value: "5", expected: 5},
		{name: "unset", value: "", expected: 3},
		{name: "decimal", value: "2.5", expected: 3, wantFallback: true},
		{name: "spaces", value: " 4 ", expected: 3, wantFallback: true},
		{name: "below minimum", value: "0", expected: 3, wantFallback: true},
		{name: "above maximum", value: "11", expected: 3, wantFallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)

			result := LoadEnvInt("TEST_INT", 3, inRange)

			assert.Equal(t, tt.expected, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}

func TestLoadEnvFloat(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		t.Setenv("TEST_FLOAT", "2.5")
		result := LoadEnvFloat("TEST_FLOAT", 10, ValidatePositiveFloat)
		assert.Equal(t, 2.5, result.Value)
		assert.False(t, result.FallbackApplied)
	})

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("TEST_FLOAT", "fast")
		result := LoadEnvFloat("TEST_FLOAT", 10, ValidatePositiveFloat)
		assert.Equal(t, float64(10), result.Value)
		assert.True(t, result.FallbackApplied)
		assert.Contains(t, result.Warnings[0], "invalid number format")
	})

	t.Run("zero rejected", func(t *testing.T) {
		t.Setenv("TEST_FLOAT", "0")
		result := LoadEnvFloat("TEST_FLOAT", 10, ValidatePositiveFloat)
		assert.Equal(t, float64(10), result.Value)
		assert.True(t, result.FallbackApplied)
	})
}

func TestLoadEnvBool(t *testing.T) {
	for _, v := range []string{"1", "t", "true", "TRUE", "True"} {
		t.Run("true/"+v, func(t *testing.T) {
			t.Setenv("TEST_BOOL", v)
			assert.True(t, LoadEnvBool("TEST_BOOL", false).Value)
		})
	}
	for _, v := range []string{"0", "f", "false", "FALSE"} {
		t.Run("false/"+v, func(t *testing.T) {
			t.Setenv("TEST_BOOL", v)
			assert.False(t, LoadEnvBool("TEST_BOOL", true).Value)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("TEST_BOOL", "yes")
		result := LoadEnvBool("TEST_BOOL", true)
		assert.True(t, result.Value)
		assert.True(t, result.FallbackApplied)
		assert.Contains(t, result.Warnings[0], "expected 'true' or 'false'")
	})
}
