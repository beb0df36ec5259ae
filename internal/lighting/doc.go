// Package lighting defines the wire payloads exchanged with the lighting
// fleet and the pure functions that interpret them.
//
// Two payload families exist:
//
//   - State: the lighting configuration of a device. A tagged union with a
//     "mode" discriminant and exactly one active variant (colour, rainbow,
//     strobe). Switching variants replaces the whole value; there is no
//     partial merge across variants.
//   - Report: periodic device telemetry (battery, uptime, WiFi signal) with
//     an epoch-seconds timestamp used to infer liveness.
//
// Decoding is strict: payloads must be valid JSON objects carrying exactly
// the typed fields each variant requires. No coercion is performed — a
// numeric string where a number is expected is a schema mismatch, not a
// value. Decode failures are classified as ErrMalformed (not JSON) or
// ErrSchemaMismatch (JSON, wrong shape) so callers can drop both silently
// per the error-handling policy.
//
// Everything in this package is pure and stateless; it holds no connection
// or store references and is safe for concurrent use.
package lighting
