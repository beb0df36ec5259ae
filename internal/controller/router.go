package controller

import (
	"strings"

	"github.com/calebmoran/glowlink/internal/fleet"
)

// RouteKind identifies which class of inbound message a topic carries.
type RouteKind int

const (
	// RouteLightingEcho is a device (or peer controller) echoing an applied
	// lighting state: {root}/{device}/lighting/status.
	RouteLightingEcho RouteKind = iota + 1

	// RouteDeviceStatus is a periodic telemetry report: {root}/{device}/status.
	RouteDeviceStatus
)

// Route is the parsed destination of an inbound message.
type Route struct {
	Kind   RouteKind
	Device string
}

// ParseTopic classifies a topic received on the {root}/# subscription.
//
// Only two shapes are meaningful, and only for registered devices:
//
//	{root}/{device}/lighting/status -> RouteLightingEcho
//	{root}/{device}/status          -> RouteDeviceStatus
//
// Everything else under the root, including our own outbound command topics
// and unknown device names, returns ok=false and is silently dropped by the
// caller.
func ParseTopic(root string, registry *fleet.Registry, topic string) (Route, bool) {
	prefix := root + "/"
	if !strings.HasPrefix(topic, prefix) {
		return Route{}, false
	}

	parts := strings.Split(topic[len(prefix):], "/")
	switch {
	case len(parts) == 2 && parts[1] == "status":
		if !registry.Known(parts[0]) {
			return Route{}, false
		}
		return Route{Kind: RouteDeviceStatus, Device: parts[0]}, true

	case len(parts) == 3 && parts[1] == "lighting" && parts[2] == "status":
		if !registry.Known(parts[0]) {
			return Route{}, false
		}
		return Route{Kind: RouteLightingEcho, Device: parts[0]}, true
	}

	return Route{}, false
}
