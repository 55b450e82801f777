package config

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Loaders
// ============================================================================

func TestLoadEnvString(t *testing.T) {
	t.Setenv("TEST_STRING", "custom")
	assert.Equal(t, "custom", LoadEnvString("TEST_STRING", "default"))

	t.Setenv("TEST_STRING", "")
	assert.Equal(t, "default", LoadEnvString("TEST_STRING", "default"))
}

func TestLoadEnvWithFallback(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		want     string
		fallback bool
	}{
		{"valid", "0 6 * * *", "0 6 * * *", false},
		{"unset", "", "*/5 * * * *", false},
		{"invalid", "every minute", "*/5 * * * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_CRON", tt.value)
			result := LoadEnvWithFallback("TEST_CRON", "*/5 * * * *", ValidateCronSchedule)
			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.fallback, result.FallbackApplied)
			if tt.fallback {
				assert.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "TEST_CRON")
			}
		})
	}
}

func TestLoadEnvDuration(t *testing.T) {
	positive := ValidatePositiveDuration

	t.Setenv("TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, LoadEnvDuration("TEST_DURATION", time.Second, positive).Value)

	t.Setenv("TEST_DURATION", "soon")
	r := LoadEnvDuration("TEST_DURATION", time.Second, positive)
	assert.Equal(t, time.Second, r.Value)
	assert.True(t, r.FallbackApplied)

	t.Setenv("TEST_DURATION", "-5s")
	r = LoadEnvDuration("TEST_DURATION", time.Second, positive)
	assert.Equal(t, time.Second, r.Value)
	assert.True(t, r.FallbackApplied)

	t.Setenv("TEST_DURATION", "-5s")
	assert.Equal(t, -5*time.Second, LoadEnvDuration("TEST_DURATION", time.Second, nil).Value)
}

func TestLoadEnvInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1024, 65535) }

	t.Setenv("TEST_PORT", "9091")
	assert.Equal(t, 9091, LoadEnvInt("TEST_PORT", 8080, inRange).Value)

	for _, bad := range []string{"80", "70000", "abc", "10.5"} {
		t.Setenv("TEST_PORT", bad)
		r := LoadEnvInt("TEST_PORT", 8080, inRange)
		assert.Equal(t, 8080, r.Value, bad)
		assert.True(t, r.FallbackApplied, bad)
	}

	t.Setenv("TEST_PORT", " 9092 ")
	assert.Equal(t, 9092, LoadEnvInt("TEST_PORT", 8080, inRange).Value)
}

func TestLoadEnvInt64(t *testing.T) {
	t.Setenv("TEST_BYTES", "10485760")
	assert.Equal(t, int64(10485760), LoadEnvInt64("TEST_BYTES", 1, nil).Value)

	t.Setenv("TEST_BYTES", "lots")
	assert.Equal(t, int64(1), LoadEnvInt64("TEST_BYTES", 1, nil).Value)
}

func TestLoadEnvFloat(t *testing.T) {
	inRange := func(v float64) error { return ValidateFloatRange(v, 0.1, 100) }

	t.Setenv("TEST_RATE", "2.5")
	assert.Equal(t, 2.5, LoadEnvFloat("TEST_RATE", 1, inRange).Value)

	t.Setenv("TEST_RATE", "0")
	r := LoadEnvFloat("TEST_RATE", 1, inRange)
	assert.Equal(t, 1.0, r.Value)
	assert.True(t, r.FallbackApplied)
}

func TestLoadEnvBool(t *testing.T) {
	for _, v := range []string{"1", "t", "TRUE", "true"} {
		t.Setenv("TEST_BOOL", v)
		assert.Equal(t, true, LoadEnvBool("TEST_BOOL", false).Value, v)
	}
	for _, v := range []string{"0", "F", "false"} {
		t.Setenv("TEST_BOOL", v)
		assert.Equal(t, false, LoadEnvBool("TEST_BOOL", true).Value, v)
	}

	t.Setenv("TEST_BOOL", "yes")
	r := LoadEnvBool("TEST_BOOL", true)
	assert.Equal(t, true, r.Value)
	assert.True(t, r.FallbackApplied)
}

// ============================================================================
// Validators
// ============================================================================

func TestValidateCronSchedule(t *testing.T) {
	for _, s := range []string{"*/5 * * * *", "30 5 * * *", "0 0 1 * *", "0 9-17 * * 1-5"} {
		assert.NoError(t, ValidateCronSchedule(s), s)
	}
	for _, s := range []string{"", "* * *", "60 * * * *", "@every 1m 5s"} {
		assert.Error(t, ValidateCronSchedule(s), s)
	}
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("Asia/Tokyo"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))
}

func TestValidateRanges(t *testing.T) {
	assert.NoError(t, ValidateDuration(time.Minute, time.Second, time.Hour))
	assert.ErrorContains(t, ValidateDuration(time.Millisecond, time.Second, time.Hour), "below minimum")
	assert.ErrorContains(t, ValidateDuration(2*time.Hour, time.Second, time.Hour), "exceeds maximum")
	assert.ErrorContains(t, ValidateIntRange(5, 10, 1), "invalid range")
	assert.NoError(t, ValidateIntRange(1, 1, 1))
	assert.NoError(t, ValidateInt64Range(1<<20, 1, 1<<30))
	assert.Error(t, ValidateFloatRange(0.01, 0.1, 1))
	assert.Error(t, ValidatePositiveDuration(0))
}

// ============================================================================
// Metrics
// ============================================================================

func TestConfigMetrics_Observe(t *testing.T) {
	m := NewConfigMetrics("test_observe")
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ok := m.Observe(logger, "health_port", ConfigLoadResult{Value: 9091})
	assert.False(t, ok)
	assert.Zero(t, buf.Len())

	ok = m.Observe(logger, "health_port", ConfigLoadResult{
		Value:           9091,
		Warnings:        []string{"Invalid HEALTH_PORT='1'"},
		FallbackApplied: true,
	})
	assert.True(t, ok)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("health_port")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("health_port")))
	assert.Contains(t, buf.String(), "Configuration fallback applied")
	assert.Contains(t, buf.String(), "test_observe")
}

func TestConfigMetrics_FallbackActiveAndTimestamp(t *testing.T) {
	m := NewConfigMetrics("test_fallback_active")

	m.SetFallbackActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbackActive))
	m.SetFallbackActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.FallbackActive))

	m.RecordLoadTimestamp()
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), float64(0))
}
