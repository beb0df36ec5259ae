// Package mqtt provides the broker connection for Glowlink.
//
// It wraps paho.mqtt.golang with a stable per-session client ID, fixed-delay
// reconnection that never gives up, subscription tracking so handlers
// survive reconnects, and topic builders for the {root}/{device} hierarchy.
package mqtt
