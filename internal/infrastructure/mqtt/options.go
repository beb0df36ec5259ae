package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/calebmoran/glowlink/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for initial connection.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	defaultKeepAlive = 60 * time.Second

	// maxQoS is the maximum QoS level supported.
	maxQoS = 2

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// newClientID generates the session client ID: a configured prefix plus a
// random UUID. Generated once per process and reused across reconnects, so
// the broker sees the same client resuming rather than a stream of new ones.
func newClientID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// brokerURL assembles the broker URL from the configured scheme, host, port
// and (for websocket transports) path.
func brokerURL(cfg config.MQTTBrokerConfig) string {
	url := fmt.Sprintf("%s://%s:%d", cfg.Scheme, cfg.Host, cfg.Port)
	if cfg.Scheme == "ws" || cfg.Scheme == "wss" {
		url += cfg.Path
	}
	return url
}

// buildClientOptions creates paho MQTT options from Glowlink config.
//
// This configures:
//   - Broker URL (tcp, ssl, ws, or wss per the configured scheme)
//   - Stable session client ID
//   - Authentication credentials (if provided)
//   - Auto-reconnect at a fixed cadence, retrying forever
//   - TLS configuration for the secure schemes
//   - Clean session mode
func buildClientOptions(cfg config.MQTTConfig, clientID string) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	opts.AddBroker(brokerURL(cfg.Broker))
	opts.SetClientID(clientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	opts.SetCleanSession(true)

	// Fixed-delay reconnect, forever. Initial and max interval are the same
	// value so the cadence never grows, and paho never gives up on its own.
	delay := time.Duration(cfg.Reconnect.Delay) * time.Second
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(delay)
	opts.SetMaxReconnectInterval(delay)

	opts.SetConnectTimeout(defaultConnectTimeout)
	opts.SetKeepAlive(defaultKeepAlive)

	if cfg.Broker.Scheme == "ssl" || cfg.Broker.Scheme == "wss" {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
		})
	}

	return opts
}

// configureLWT sets up Last Will and Testament for the controller.
//
// The LWT message is published by the broker if this client disconnects
// unexpectedly, so other controllers on the same root can tell a crashed
// peer from a quiet one.
func configureLWT(opts *pahomqtt.ClientOptions, topics Topics, clientID string) {
	willPayload := fmt.Sprintf(
		`{"status":"offline","client_id":"%s","reason":"unexpected_disconnect","timestamp":"%s"}`,
		clientID,
		time.Now().UTC().Format(time.RFC3339),
	)

	opts.SetWill(topics.ControllerStatus(), willPayload, 1, true)
}

// buildOnlinePayload creates the JSON payload for online status messages.
func buildOnlinePayload(clientID string) string {
	return fmt.Sprintf(
		`{"status":"online","client_id":"%s","timestamp":"%s"}`,
		clientID,
		time.Now().UTC().Format(time.RFC3339),
	)
}

// buildOfflinePayload creates the JSON payload for graceful offline status.
func buildOfflinePayload(clientID string) string {
	return fmt.Sprintf(
		`{"status":"offline","client_id":"%s","reason":"graceful_shutdown","timestamp":"%s"}`,
		clientID,
		time.Now().UTC().Format(time.RFC3339),
	)
}
