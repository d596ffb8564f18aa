package config

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateBaseURL(t *testing.T) {
	valid := []string{
		"http://localhost:8000/api",
		"https://lists.example.com",
		"http://127.0.0.1:9000/apifake",
	}
	for _, raw := range valid {
		t.Run("valid/"+raw, func(t *testing.T) {
			assert.NoError(t, ValidateBaseURL(raw))
		})
	}

	invalid := map[string]string{
		"empty":         "",
		"no scheme":     "localhost:8000/api",
		"bad scheme":    "ftp://example.com",
		"no host":       "http:///api",
		"with query":    "http://localhost/api?x=1",
		"with fragment": "http://localhost/api#top",
	}
	for name, raw := range invalid {
		t.Run("invalid/"+name, func(t *testing.T) {
			assert.Error(t, ValidateBaseURL(raw))
		})
	}
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(time.Second, time.Second, time.Minute))
	assert.NoError(t, ValidateDuration(time.Minute, time.Second, time.Minute))
	assert.ErrorContains(t, ValidateDuration(time.Millisecond, time.Second, time.Minute), "below minimum")
	assert.ErrorContains(t, ValidateDuration(time.Hour, time.Second, time.Minute), "exceeds maximum")
	assert.ErrorContains(t, ValidateDuration(time.Second, time.Minute, time.Second), "invalid range")
}

func TestValidateIntRange(t *testing.T) {
	assert.NoError(t, ValidateIntRange(1, 1, 10))
	assert.NoError(t, ValidateIntRange(10, 1, 10))
	assert.ErrorContains(t, ValidateIntRange(0, 1, 10), "below minimum")
	assert.ErrorContains(t, ValidateIntRange(11, 1, 10), "exceeds maximum")
	assert.ErrorContains(t, ValidateIntRange(5, 10, 1), "invalid range")
}

func TestValidatePositiveFloat(t *testing.T) {
	assert.NoError(t, ValidatePositiveFloat(0.5))
	assert.Error(t, ValidatePositiveFloat(0))
	assert.Error(t, ValidatePositiveFloat(-1))
	assert.Error(t, ValidatePositiveFloat(math.NaN()))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.ErrorContains(t, ValidatePositiveDuration(0), "duration must be positive")
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}
