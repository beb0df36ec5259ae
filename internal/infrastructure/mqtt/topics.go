package mqtt

import "fmt"

// Topics builds Glowlink MQTT topic strings under a configurable root.
//
// The whole fleet shares one root (typically a generated identifier, so the
// hierarchy doesn't collide on a shared broker). Per-device topics follow
// the flat scheme {root}/{device}/...:
//
//	topics := mqtt.Topics{Root: "1b0dc2e4-lights"}
//	topics.LightingSet("Ben")
//	// Returns: "1b0dc2e4-lights/Ben/lighting/set"
type Topics struct {
	Root string
}

// LightingSet returns the topic a lighting command is published to.
// Devices subscribe to {root}/+/lighting/set and apply the payload on
// receipt.
//
// Example: {root}/Ben/lighting/set
func (t Topics) LightingSet(device string) string {
	return fmt.Sprintf("%s/%s/lighting/set", t.Root, device)
}

// LightingEcho returns the topic a device echoes its applied lighting
// state on. Other controllers mirror from here.
//
// Example: {root}/Ben/lighting/status
func (t Topics) LightingEcho(device string) string {
	return fmt.Sprintf("%s/%s/lighting/status", t.Root, device)
}

// DeviceStatus returns the topic for a device's periodic telemetry report.
//
// Example: {root}/Ben/status
func (t Topics) DeviceStatus(device string) string {
	return fmt.Sprintf("%s/%s/status", t.Root, device)
}

// ControllerStatus returns the topic this controller announces its own
// presence on (also used as the LWT topic).
//
// Example: {root}/controller/status
func (t Topics) ControllerStatus() string {
	return fmt.Sprintf("%s/controller/status", t.Root)
}

// All returns the wildcard pattern covering every topic under the root.
// The controller holds a single subscription to this pattern and routes
// messages itself.
//
// Pattern: {root}/#
func (t Topics) All() string {
	return fmt.Sprintf("%s/#", t.Root)
}
