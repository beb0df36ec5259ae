package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Glowlink.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Devices  []string       `yaml:"devices"`
	Sync     SyncConfig     `yaml:"sync"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	TopicRoot string              `yaml:"topic_root"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
//
// Scheme selects the transport: "tcp", "ssl", "ws", or "wss". Path is only
// used for the websocket schemes (typically "/mqtt").
type MQTTBrokerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Scheme         string `yaml:"scheme"`
	Path           string `yaml:"path"`
	ClientIDPrefix string `yaml:"client_id_prefix"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
// Glowlink retries at a fixed cadence forever; there is no backoff growth
// and no attempt cap.
type MQTTReconnectConfig struct {
	Delay int `yaml:"delay"`
}

// SyncConfig contains the timing knobs for the synchronisation layer.
type SyncConfig struct {
	// DebounceMS is the fixed quiet window applied to inbound lighting
	// status echoes, in milliseconds.
	DebounceMS int `yaml:"debounce_ms"`

	// ThrottleMS is the minimum spacing between outbound publishes per
	// device, in milliseconds.
	ThrottleMS int `yaml:"throttle_ms"`

	// OfflineThresholdS is the report age, in seconds, beyond which a
	// device is considered offline.
	OfflineThresholdS int `yaml:"offline_threshold_s"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GLOWLINK_SECTION_KEY
// For example: GLOWLINK_DATABASE_PATH, GLOWLINK_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:           "localhost",
				Port:           1883,
				Scheme:         "tcp",
				Path:           "/mqtt",
				ClientIDPrefix: "glowlink",
			},
			QoS:       1,
			TopicRoot: "glowlink",
			Reconnect: MQTTReconnectConfig{
				Delay: 5,
			},
		},
		Devices: []string{"Ben", "Roo"},
		Sync: SyncConfig{
			DebounceMS:        500,
			ThrottleMS:        50,
			OfflineThresholdS: 40,
		},
		Database: DatabaseConfig{
			Path:        "./data/glowlink.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GLOWLINK_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// MQTT
	if v := os.Getenv("GLOWLINK_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GLOWLINK_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("GLOWLINK_MQTT_SCHEME"); v != "" {
		cfg.MQTT.Broker.Scheme = v
	}
	if v := os.Getenv("GLOWLINK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GLOWLINK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("GLOWLINK_MQTT_TOPIC_ROOT"); v != "" {
		cfg.MQTT.TopicRoot = v
	}

	// Database
	if v := os.Getenv("GLOWLINK_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Logging
	if v := os.Getenv("GLOWLINK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// validSchemes are the broker transports paho supports for this client.
var validSchemes = map[string]bool{
	"tcp": true,
	"ssl": true,
	"ws":  true,
	"wss": true,
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if !validSchemes[c.MQTT.Broker.Scheme] {
		errs = append(errs, "mqtt.broker.scheme must be tcp, ssl, ws, or wss")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.TopicRoot == "" {
		errs = append(errs, "mqtt.topic_root is required")
	} else if strings.ContainsAny(c.MQTT.TopicRoot, "#+") {
		errs = append(errs, "mqtt.topic_root must not contain wildcards")
	}
	if c.MQTT.Reconnect.Delay < 1 {
		errs = append(errs, "mqtt.reconnect.delay must be at least 1 second")
	}

	// Device validation
	if len(c.Devices) == 0 {
		errs = append(errs, "devices list must not be empty")
	}

	// Sync validation
	if c.Sync.DebounceMS < 1 {
		errs = append(errs, "sync.debounce_ms must be positive")
	}
	if c.Sync.ThrottleMS < 1 {
		errs = append(errs, "sync.throttle_ms must be positive")
	}
	if c.Sync.OfflineThresholdS < 1 {
		errs = append(errs, "sync.offline_threshold_s must be positive")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// DebounceWindow returns the inbound debounce window as a Duration.
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.Sync.DebounceMS) * time.Millisecond
}

// ThrottleInterval returns the outbound throttle interval as a Duration.
func (c *Config) ThrottleInterval() time.Duration {
	return time.Duration(c.Sync.ThrottleMS) * time.Millisecond
}

// OfflineThreshold returns the liveness threshold as a Duration.
func (c *Config) OfflineThreshold() time.Duration {
	return time.Duration(c.Sync.OfflineThresholdS) * time.Second
}

// ReconnectDelay returns the fixed reconnect cadence as a Duration.
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.MQTT.Reconnect.Delay) * time.Second
}
