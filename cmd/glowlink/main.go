// Glowlink - fleet controller for battery-powered MQTT lighting devices.
//
// Glowlink keeps a small fleet of wireless lights and any number of
// controller instances convergent over a shared broker: it mirrors device
// echoes into a canonical store, derives liveness from telemetry, and
// throttles outbound commands so interactive controls can't flood the
// radio link.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/calebmoran/glowlink/migrations"

	"github.com/calebmoran/glowlink/internal/controller"
	"github.com/calebmoran/glowlink/internal/fleet"
	"github.com/calebmoran/glowlink/internal/infrastructure/config"
	"github.com/calebmoran/glowlink/internal/infrastructure/database"
	"github.com/calebmoran/glowlink/internal/infrastructure/logging"
	"github.com/calebmoran/glowlink/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// snapshotTimeout bounds the shutdown snapshot write.
const snapshotTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Glowlink",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise the fleet: fixed identity set, canonical store, snapshot
	// restore from the previous session.
	registry, err := fleet.NewRegistry(cfg.Devices)
	if err != nil {
		return fmt.Errorf("building device registry: %w", err)
	}
	store := fleet.NewStore(registry)

	repo := fleet.NewRepository(db.DB)
	snapshots, err := repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading device snapshots: %w", err)
	}
	store.Restore(snapshots)
	log.Info("fleet initialised",
		"devices", registry.Size(),
		"restored", len(snapshots),
	)

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", mqttClient.ClientID(),
		"topic_root", cfg.MQTT.TopicRoot,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Start the synchronisation controller
	ctrl := controller.New(controller.Options{
		TopicRoot:        cfg.MQTT.TopicRoot,
		QoS:              byte(cfg.MQTT.QoS),
		Registry:         registry,
		Store:            store,
		Publisher:        mqttClient,
		Logger:           log,
		DebounceWindow:   cfg.DebounceWindow(),
		ThrottleInterval: cfg.ThrottleInterval(),
		OfflineThreshold: cfg.OfflineThreshold(),
	})
	if err := ctrl.Start(mqttClient); err != nil {
		return fmt.Errorf("starting controller: %w", err)
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Stop timers first so no publish races the snapshot, then persist the
	// fleet's desired state for the next session.
	ctrl.Close()

	saveCtx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := repo.SaveAll(saveCtx, store.List()); err != nil {
		log.Error("saving device snapshots failed", "error", err)
	} else {
		log.Info("device snapshots saved")
	}

	// Deferred Close() calls will run in reverse order:
	// 1. MQTT
	// 2. Database

	log.Info("Glowlink stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GLOWLINK_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GLOWLINK_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	return nil
}
