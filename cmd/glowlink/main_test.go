package main

import (
	"context"
	"path/filepath"
	"testing"
)

func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("GLOWLINK_CONFIG", "")

	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("GLOWLINK_CONFIG", "/etc/glowlink/config.yaml")

	if got := getConfigPath(); got != "/etc/glowlink/config.yaml" {
		t.Errorf("getConfigPath() = %q, want env override", got)
	}
}

func TestRun_MissingConfig(t *testing.T) {
	t.Setenv("GLOWLINK_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if err := run(context.Background()); err == nil {
		t.Error("run() expected error for missing config file")
	}
}
