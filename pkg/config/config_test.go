package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Name    string        `envconfig:"NAME" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"5s"`
	Mode    string        `envconfig:"MODE" default:"memory"`
}

func TestNewLoadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGTEST_NAME=desk\nCFGTEST_TIMEOUT=2s\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CFGTEST_MODE", "upstash")
	t.Cleanup(func() {
		os.Unsetenv("CFGTEST_NAME")
		os.Unsetenv("CFGTEST_TIMEOUT")
	})

	cfg, err := New[sampleConfig]("CFGTEST", WithEnvFile(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Name != "desk" || cfg.Timeout != 2*time.Second || cfg.Mode != "upstash" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNewProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGWIN_NAME=from-file\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CFGWIN_NAME", "from-env")

	cfg, err := New[sampleConfig]("CFGWIN", WithEnvFile(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.Name != "from-env" {
		t.Fatalf("Name = %q, want from-env", cfg.Name)
	}
}

func TestNewMissingExplicitFile(t *testing.T) {
	if _, err := New[sampleConfig]("CFGMISS", WithEnvFile(filepath.Join(t.TempDir(), "nope.env"))); err == nil {
		t.Fatal("expected error for missing env file")
	}
}

func TestNewRequiredField(t *testing.T) {
	if _, err := New[sampleConfig]("CFGREQ"); err == nil {
		t.Fatal("expected error for missing required field")
	}
}
