// Package fleet holds the canonical state of the lighting fleet.
//
// The fleet is a small, fixed, closed set of device identities chosen at
// startup. The Store maps each identity to its DeviceRecord — current
// lighting configuration, last-known telemetry report, and a UI-local
// selection flag. Records are created once and never added or removed for
// the lifetime of the session; messages naming an identity outside the set
// never reach the store (they are rejected at the topic router).
//
// The Store is the only shared mutable resource in the system. Exactly
// three actors mutate it: the inbound reconciler (lighting field), the
// status path (status field), and UI intent (lighting + selected fields).
// A single mutex serialises all mutation; records are returned by value so
// callers can never alias store internals.
//
// Repository persists a snapshot of the current lighting value and
// selection flag per device (one row each, upserted) so a new session
// resumes the last desired state. It holds no history.
package fleet
