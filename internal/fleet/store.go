package fleet

import (
	"sync"
	"time"

	"github.com/calebmoran/glowlink/internal/lighting"
)

// DeviceRecord is the canonical state of one device.
//
// Lighting is always present and well-formed once the store is initialised.
// Status is nil until the first valid telemetry report arrives. Selected is
// UI-local and never transmitted.
type DeviceRecord struct {
	Identity string
	Lighting lighting.State
	Status   *lighting.Report
	Selected bool
}

// Store maps each known identity to its DeviceRecord.
//
// One entry exists per registry identity, created at construction with the
// colour default and absent status, and never destroyed for the session
// lifetime. All mutation is serialised through a single mutex; reads return
// copies so callers never alias store internals.
type Store struct {
	registry *Registry

	mu      sync.RWMutex
	records map[string]*DeviceRecord
}

// NewStore creates a store with one default-initialised record per known
// identity.
func NewStore(registry *Registry) *Store {
	records := make(map[string]*DeviceRecord, registry.Size())
	for _, name := range registry.Names() {
		state, _ := lighting.Default(lighting.ModeColour)
		records[name] = &DeviceRecord{
			Identity: name,
			Lighting: state,
		}
	}
	return &Store{
		registry: registry,
		records:  records,
	}
}

// SetLighting replaces the lighting value for a device. Used by the inbound
// reconciler (acknowledged state) and by UI intent (desired state); both
// replace the whole value — variants never merge.
func (s *Store) SetLighting(name string, state lighting.State) error {
	if !s.registry.Known(name) {
		return ErrUnknownDevice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[name].Lighting = state
	return nil
}

// SetStatus replaces the last-known telemetry report for a device. Only the
// most recent report is retained.
func (s *Store) SetStatus(name string, report lighting.Report) error {
	if !s.registry.Known(name) {
		return ErrUnknownDevice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[name].Status = &report
	return nil
}

// SetSelected sets the UI selection flag for a device.
func (s *Store) SetSelected(name string, selected bool) error {
	if !s.registry.Known(name) {
		return ErrUnknownDevice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[name].Selected = selected
	return nil
}

// ToggleSelected flips the UI selection flag and returns the new value.
func (s *Store) ToggleSelected(name string) (bool, error) {
	if !s.registry.Known(name) {
		return false, ErrUnknownDevice
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[name]
	rec.Selected = !rec.Selected
	return rec.Selected, nil
}

// Get returns a copy of a device's record.
func (s *Store) Get(name string) (DeviceRecord, error) {
	if !s.registry.Known(name) {
		return DeviceRecord{}, ErrUnknownDevice
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRecord(s.records[name]), nil
}

// List returns copies of all records in identity order.
func (s *Store) List() []DeviceRecord {
	names := s.registry.Names()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DeviceRecord, 0, len(names))
	for _, name := range names {
		out = append(out, copyRecord(s.records[name]))
	}
	return out
}

// Selected returns the identities currently selected in the UI, in
// identity order.
func (s *Store) Selected() []string {
	names := s.registry.Names()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, name := range names {
		if s.records[name].Selected {
			out = append(out, name)
		}
	}
	return out
}

// Online reports whether a device is considered live at the given time.
// A device with no status report yet is always offline.
func (s *Store) Online(name string, now time.Time, threshold time.Duration) (bool, error) {
	if !s.registry.Known(name) {
		return false, ErrUnknownDevice
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[name].Status.Online(now, threshold), nil
}

// Restore overwrites lighting and selection from a persisted snapshot.
// Entries for identities outside the registry are ignored (the snapshot may
// predate a device list change). Status is never restored — liveness always
// starts unknown.
func (s *Store) Restore(snapshot map[string]Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, snap := range snapshot {
		rec, ok := s.records[name]
		if !ok {
			continue
		}
		rec.Lighting = snap.Lighting
		rec.Selected = snap.Selected
	}
}

func copyRecord(rec *DeviceRecord) DeviceRecord {
	out := *rec
	if rec.Status != nil {
		status := *rec.Status
		out.Status = &status
	}
	return out
}
