package controller

import (
	"fmt"
	"time"

	"github.com/calebmoran/glowlink/internal/fleet"
	"github.com/calebmoran/glowlink/internal/infrastructure/logging"
	"github.com/calebmoran/glowlink/internal/infrastructure/mqtt"
	"github.com/calebmoran/glowlink/internal/lighting"
)

// Publisher sends lighting commands to devices. Satisfied by mqtt.Client.
type Publisher interface {
	PublishLighting(device string, payload []byte) error
}

// Subscriber registers a handler for inbound messages. Satisfied by
// mqtt.Client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Options configures a Controller.
type Options struct {
	TopicRoot string
	QoS       byte

	Registry  *fleet.Registry
	Store     *fleet.Store
	Publisher Publisher
	Logger    *logging.Logger

	DebounceWindow   time.Duration
	ThrottleInterval time.Duration
	OfflineThreshold time.Duration
}

// Controller is the synchronisation core: it routes inbound fleet traffic
// into the device store and turns UI intent into throttled outbound
// commands.
//
// Inbound path: every message on {root}/# is classified by ParseTopic.
// Lighting echoes are decoded strictly, debounced per device, then written
// to the store as acknowledged state. Telemetry reports replace the
// device's last report.
//
// Outbound path: UI intent writes desired state to the store immediately
// and offers the encoded payload to the per-device throttler, which
// guarantees the final value of any burst reaches the device.
type Controller struct {
	topicRoot string
	qos       byte

	registry  *fleet.Registry
	store     *fleet.Store
	publisher Publisher
	logger    *logging.Logger

	debouncer *Debouncer
	throttler *Throttler

	offlineThreshold time.Duration
	now              func() time.Time
}

// New creates a controller. It does not subscribe; call Start once the
// broker connection is up.
func New(opts Options) *Controller {
	c := &Controller{
		topicRoot:        opts.TopicRoot,
		qos:              opts.QoS,
		registry:         opts.Registry,
		store:            opts.Store,
		publisher:        opts.Publisher,
		logger:           opts.Logger,
		offlineThreshold: opts.OfflineThreshold,
		now:              time.Now,
	}

	c.debouncer = NewDebouncer(opts.DebounceWindow, c.applyEcho)
	c.throttler = NewThrottler(opts.ThrottleInterval, c.publish)

	return c
}

// Start subscribes to the fleet's entire topic hierarchy with a single
// wildcard subscription. The mqtt client restores it on reconnect.
func (c *Controller) Start(sub Subscriber) error {
	topic := mqtt.Topics{Root: c.topicRoot}.All()
	if err := sub.Subscribe(topic, c.qos, c.HandleMessage); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}

	c.logger.Info("controller started", "topic", topic)
	return nil
}

// HandleMessage routes one inbound broker message.
//
// Topics that don't match a known device route are dropped without error;
// a shared broker carries plenty of traffic that isn't ours. Payloads that
// fail strict decoding are rejected and reported, leaving the store
// untouched.
func (c *Controller) HandleMessage(topic string, payload []byte) error {
	route, ok := ParseTopic(c.topicRoot, c.registry, topic)
	if !ok {
		return nil
	}

	switch route.Kind {
	case RouteLightingEcho:
		state, err := lighting.DecodeState(payload)
		if err != nil {
			return fmt.Errorf("lighting echo from %s: %w", route.Device, err)
		}
		c.debouncer.Observe(route.Device, state)

	case RouteDeviceStatus:
		report, err := lighting.DecodeReport(payload)
		if err != nil {
			return fmt.Errorf("status report from %s: %w", route.Device, err)
		}
		if err := c.store.SetStatus(route.Device, report); err != nil {
			return fmt.Errorf("storing status for %s: %w", route.Device, err)
		}
	}

	return nil
}

// applyEcho commits a debounced echo to the store as acknowledged state.
func (c *Controller) applyEcho(device string, state lighting.State) {
	if err := c.store.SetLighting(device, state); err != nil {
		c.logger.Warn("applying echoed state failed", "device", device, "error", err)
		return
	}
	c.logger.Debug("device state reconciled", "device", device, "mode", string(state.Mode))
}

// publish is the throttler's send callback: encode and hand to the broker
// client. Publish failures are logged, not retried; the next intent or the
// device's own echo converges the state.
func (c *Controller) publish(device string, state lighting.State) {
	payload, err := state.Encode()
	if err != nil {
		c.logger.Error("encoding lighting command failed", "device", device, "error", err)
		return
	}
	if err := c.publisher.PublishLighting(device, payload); err != nil {
		c.logger.Warn("publishing lighting command failed", "device", device, "error", err)
	}
}

// ApplyLighting sets the desired lighting state on every selected device.
//
// The store is updated immediately so the UI reflects intent without
// waiting for the broker round-trip; the publish itself goes through the
// per-device throttler.
func (c *Controller) ApplyLighting(state lighting.State) error {
	selected := c.store.Selected()
	if len(selected) == 0 {
		return ErrNoSelection
	}

	for _, device := range selected {
		if err := c.store.SetLighting(device, state); err != nil {
			return err
		}
		c.throttler.Offer(device, state)
	}
	return nil
}

// SetMode switches every selected device to the given mode using that
// mode's default parameters.
func (c *Controller) SetMode(mode lighting.Mode) error {
	state, ok := lighting.Default(mode)
	if !ok {
		return lighting.ErrUnknownMode
	}
	return c.ApplyLighting(state)
}

// ToggleSelected flips a device's UI selection and returns the new value.
func (c *Controller) ToggleSelected(device string) (bool, error) {
	return c.store.ToggleSelected(device)
}

// Devices returns the current record for every device in identity order.
func (c *Controller) Devices() []fleet.DeviceRecord {
	return c.store.List()
}

// Online reports whether a device's last telemetry is fresh enough to
// consider it live.
func (c *Controller) Online(device string) (bool, error) {
	return c.store.Online(device, c.now(), c.offlineThreshold)
}

// Close stops the debounce and throttle timers. Pending values are
// dropped; desired state survives in the store and its snapshot.
func (c *Controller) Close() {
	c.debouncer.Stop()
	c.throttler.Stop()
	c.logger.Info("controller stopped")
}
