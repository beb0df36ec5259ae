// Package database provides SQLite connectivity for Glowlink.
//
// Glowlink persists a single small table: the per-device state snapshot
// that lets a new session resume the fleet's last desired lighting and
// selection without relying on broker-retained messages. SQLite in WAL
// mode is more than sufficient for a handful of rows written at shutdown.
//
// Schema migrations are embedded into the binary via the migrations
// package and applied at startup, each in its own transaction, tracked in
// the schema_migrations table.
package database
