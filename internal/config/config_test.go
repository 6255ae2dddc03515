package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/breath-sync/internal/logic"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "breath-sync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultMatchesEngineDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, logic.DefaultTuning(), cfg.Tuning())
	assert.Equal(t, logic.Preset(60), cfg.Selection())
	assert.Equal(t, logic.ThemeDay, cfg.Theme())
	assert.Equal(t, ":80", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Minute, cfg.MQTT.Heartbeat)
	assert.False(t, cfg.GPIO.Enabled)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":8080"
mqtt:
  broker: "tcp://broker.local:1883"
  heartbeat: 30s
gpio:
  enabled: true
  button_pin: 5
session:
  duration_seconds: 300
  theme: night
  relocate_interval: 4s
  interpolate_factor: 0.05
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 50*time.Millisecond, cfg.HTTP.BroadcastThrottle, "unset field keeps default")
	assert.Equal(t, "tcp://broker.local:1883", cfg.MQTT.Broker)
	assert.Equal(t, 30*time.Second, cfg.MQTT.Heartbeat)
	assert.Equal(t, "breath-sync", cfg.MQTT.ClientID)
	assert.True(t, cfg.GPIO.Enabled)
	assert.Equal(t, 5, cfg.GPIO.ButtonPin)
	assert.Equal(t, 27, cfg.GPIO.LEDPin)

	assert.Equal(t, logic.Preset(300), cfg.Selection())
	assert.Equal(t, logic.ThemeNight, cfg.Theme())

	tuning := cfg.Tuning()
	assert.Equal(t, 4*time.Second, tuning.RelocateInterval)
	assert.Equal(t, 0.05, tuning.InterpolateFactor)
	assert.Equal(t, 50*time.Millisecond, tuning.InterpolateInterval)
}

func TestTuningRejectsOutOfRangeValues(t *testing.T) {
	cfg := Default()
	cfg.Session.InterpolateFactor = 1.5
	cfg.Session.MinCoord = 90
	cfg.Session.MaxCoord = 10
	cfg.Session.CountdownFrom = 0

	def := logic.DefaultTuning()
	tuning := cfg.Tuning()
	assert.Equal(t, def.InterpolateFactor, tuning.InterpolateFactor)
	assert.Equal(t, def.MinCoord, tuning.MinCoord)
	assert.Equal(t, def.MaxCoord, tuning.MaxCoord)
	assert.Equal(t, def.CountdownFrom, tuning.CountdownFrom)
}

func TestLoadEmptyFileGivesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "session: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadBadDuration(t *testing.T) {
	_, err := Load(writeConfig(t, "mqtt:\n  heartbeat: soon\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	for _, poll := range []time.Duration{0, -time.Millisecond} {
		cfg := Default()
		cfg.GPIO.Poll = poll
		assert.Error(t, cfg.Validate(), "poll %v", poll)
	}

	cfg := Default()
	cfg.MQTT.Heartbeat = 0
	cfg.HTTP.BroadcastThrottle = 0
	assert.NoError(t, cfg.Validate(), "zero heartbeat and throttle disable features")
}

func TestLoadDoesNotValidate(t *testing.T) {
	// A flag may still fix the poll interval after the file is read.
	path := filepath.Join(t.TempDir(), "breath-sync.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gpio:\n  poll: 0s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.GPIO.Poll)
	assert.Error(t, cfg.Validate())
}
