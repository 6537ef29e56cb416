package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDefaults(t *testing.T) {
	t.Setenv("SMM_TEST_STR", "value")
	assert.Equal(t, "value", GetEnv("SMM_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetEnv("SMM_TEST_STR_MISSING", "fallback"))

	t.Setenv("SMM_TEST_INT", "42")
	assert.Equal(t, 42, GetEnvInt("SMM_TEST_INT", 7))
	assert.Equal(t, 7, GetEnvInt("SMM_TEST_INT_MISSING", 7))

	t.Setenv("SMM_TEST_INT_BAD", "not-a-number")
	assert.Equal(t, 7, GetEnvInt("SMM_TEST_INT_BAD", 7))

	t.Setenv("SMM_TEST_BOOL", "true")
	assert.True(t, GetEnvBool("SMM_TEST_BOOL", false))
	assert.False(t, GetEnvBool("SMM_TEST_BOOL_MISSING", false))

	t.Setenv("SMM_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("SMM_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, GetEnvDuration("SMM_TEST_DUR_MISSING", time.Minute))
}

func TestLoadSettingsDefaults(t *testing.T) {
	s := LoadSettings()
	assert.Equal(t, "18080", s.Port)
	assert.Equal(t, "UTC", s.DefaultTimezone)
	assert.Equal(t, 5, s.UpcomingLimit)
	assert.Equal(t, time.Minute, s.DispatchInterval)
	assert.Equal(t, 50, s.DispatchBatch)
	assert.Equal(t, "0 4 * * *", s.AnalysisCron)
}

func TestLoadSettingsOverrides(t *testing.T) {
	t.Setenv("DASHBOARD_UPCOMING_LIMIT", "3")
	t.Setenv("DISPATCH_INTERVAL", "30s")
	s := LoadSettings()
	assert.Equal(t, 3, s.UpcomingLimit)
	assert.Equal(t, 30*time.Second, s.DispatchInterval)
}
