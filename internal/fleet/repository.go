package fleet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/calebmoran/glowlink/internal/lighting"
)

// Snapshot is the persisted portion of a DeviceRecord: the current lighting
// value and selection flag. Telemetry is deliberately excluded — liveness
// must be re-derived from fresh reports each session.
type Snapshot struct {
	Lighting lighting.State
	Selected bool
}

// Repository persists device state snapshots in SQLite.
//
// The device_state table holds exactly one row per identity, upserted on
// save. This is current state only, not history: restarting the controller
// resumes the last desired state without relying on broker-retained set
// commands.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a snapshot repository on an open database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveAll upserts a snapshot row for every record.
//
// Runs in a single transaction so a crash mid-save never leaves a
// half-written fleet.
func (r *Repository) SaveAll(ctx context.Context, records []DeviceRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting snapshot transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	now := time.Now().UTC().Format(time.RFC3339)
	for _, rec := range records {
		lightingJSON, err := json.Marshal(rec.Lighting)
		if err != nil {
			return fmt.Errorf("marshalling lighting for %q: %w", rec.Identity, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO device_state (identity, lighting, selected, updated_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(identity) DO UPDATE SET
			   lighting = excluded.lighting,
			   selected = excluded.selected,
			   updated_at = excluded.updated_at`,
			rec.Identity,
			string(lightingJSON),
			boolToInt(rec.Selected),
			now,
		)
		if err != nil {
			return fmt.Errorf("upserting snapshot for %q: %w", rec.Identity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// LoadAll returns all persisted snapshots keyed by identity.
//
// Rows whose lighting JSON no longer decodes (e.g. written by an older
// schema revision) are skipped rather than failing the whole restore.
func (r *Repository) LoadAll(ctx context.Context) (map[string]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT identity, lighting, selected FROM device_state",
	)
	if err != nil {
		return nil, fmt.Errorf("querying device state: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[string]Snapshot)
	for rows.Next() {
		var identity, lightingJSON string
		var selected int
		if err := rows.Scan(&identity, &lightingJSON, &selected); err != nil {
			return nil, fmt.Errorf("scanning device state: %w", err)
		}

		var state lighting.State
		if err := json.Unmarshal([]byte(lightingJSON), &state); err != nil {
			continue
		}

		snapshots[identity] = Snapshot{
			Lighting: state,
			Selected: selected != 0,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device state: %w", err)
	}
	return snapshots, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
