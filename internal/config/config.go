// Package config loads the optional YAML configuration file of the
// breath-sync daemon. Every field has a default, so a file only needs the
// values it changes.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/breath-sync/internal/logic"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	GPIO    GPIOConfig    `yaml:"gpio"`
	Session SessionConfig `yaml:"session"`
}

type HTTPConfig struct {
	// Addr is the listen address; empty disables the HTTP server.
	Addr              string        `yaml:"addr"`
	BroadcastThrottle time.Duration `yaml:"broadcast_throttle"`
}

type MQTTConfig struct {
	// Broker is the broker URL; empty disables MQTT.
	Broker     string        `yaml:"broker"`
	ClientID   string        `yaml:"client_id"`
	BufferSize int           `yaml:"buffer_size"`
	QueueSize  int           `yaml:"queue_size"`
	Heartbeat  time.Duration `yaml:"heartbeat"`
	// PublishTicks also publishes the once-per-second CLOCK_TICK events.
	PublishTicks bool `yaml:"publish_ticks"`
}

type GPIOConfig struct {
	Enabled   bool          `yaml:"enabled"`
	ButtonPin int           `yaml:"button_pin"`
	LEDPin    int           `yaml:"led_pin"`
	Poll      time.Duration `yaml:"poll"`
	Debounce  time.Duration `yaml:"debounce"`
}

type SessionConfig struct {
	DurationSeconds     int           `yaml:"duration_seconds"`
	Theme               string        `yaml:"theme"`
	CountdownFrom       int           `yaml:"countdown_from"`
	RelocateInterval    time.Duration `yaml:"relocate_interval"`
	InterpolateInterval time.Duration `yaml:"interpolate_interval"`
	InterpolateFactor   float64       `yaml:"interpolate_factor"`
	MinCoord            float64       `yaml:"min_coord"`
	MaxCoord            float64       `yaml:"max_coord"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	t := logic.DefaultTuning()
	return &Config{
		HTTP: HTTPConfig{
			Addr:              ":80",
			BroadcastThrottle: 50 * time.Millisecond,
		},
		MQTT: MQTTConfig{
			Broker:     "tcp://192.168.1.200:1883",
			ClientID:   "breath-sync",
			BufferSize: 256,
			QueueSize:  128,
			Heartbeat:  15 * time.Minute,
		},
		GPIO: GPIOConfig{
			ButtonPin: 17,
			LEDPin:    27,
			Poll:      10 * time.Millisecond,
			Debounce:  50 * time.Millisecond,
		},
		Session: SessionConfig{
			DurationSeconds:     logic.DefaultDurationSeconds,
			Theme:               string(logic.ThemeDay),
			CountdownFrom:       t.CountdownFrom,
			RelocateInterval:    t.RelocateInterval,
			InterpolateInterval: t.InterpolateInterval,
			InterpolateFactor:   t.InterpolateFactor,
			MinCoord:            t.MinCoord,
			MaxCoord:            t.MaxCoord,
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings the daemon cannot run with. A zero heartbeat or
// broadcast throttle is allowed and disables that feature.
func (c *Config) Validate() error {
	if c.GPIO.Poll <= 0 {
		return fmt.Errorf("gpio poll interval must be positive, got %v", c.GPIO.Poll)
	}
	return nil
}

// Tuning returns the engine constants. Out-of-range values fall back to
// defaults.
func (c *Config) Tuning() logic.Tuning {
	t := logic.DefaultTuning()
	t.CountdownFrom = c.Session.CountdownFrom
	t.RelocateInterval = c.Session.RelocateInterval
	t.InterpolateInterval = c.Session.InterpolateInterval
	t.InterpolateFactor = c.Session.InterpolateFactor
	t.MinCoord = c.Session.MinCoord
	t.MaxCoord = c.Session.MaxCoord
	return t.Normalize()
}

// Selection returns the initial duration choice.
func (c *Config) Selection() logic.Selection {
	return logic.Preset(c.Session.DurationSeconds)
}

// Theme returns the initial theme.
func (c *Config) Theme() logic.Theme {
	return logic.ParseTheme(c.Session.Theme)
}
