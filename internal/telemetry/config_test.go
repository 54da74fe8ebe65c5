package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	return dir
}

func TestLoadFreshInstall(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Telemetry starts off until the user consents.
	if cfg.Enabled {
		t.Error("fresh install should start with Enabled = false")
	}
	if cfg.ConsentAsked {
		t.Error("fresh install should start with ConsentAsked = false")
	}
	if len(cfg.AnonymousID) != 36 {
		t.Errorf("AnonymousID should be a fresh UUID, got %q", cfg.AnonymousID)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := useTempConfigDir(t)

	cfg := &Config{
		Enabled:      true,
		ConsentAsked: true,
		AnonymousID:  "id-roundtrip",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// The consent file holds an install identifier, keep it private.
	info, err := os.Stat(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatalf("consent file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %o, want 0600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestLoadBackfillsMissingAnonymousID(t *testing.T) {
	dir := useTempConfigDir(t)

	raw, _ := json.Marshal(Config{Enabled: true, ConsentAsked: true})
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), raw, 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.AnonymousID) != 36 {
		t.Errorf("missing ID should be regenerated, got %q", cfg.AnonymousID)
	}
	if !cfg.Enabled || !cfg.ConsentAsked {
		t.Error("backfill must not disturb the stored consent state")
	}
}

func TestConsentTransitions(t *testing.T) {
	tests := []struct {
		name        string
		apply       func(*Config)
		wantEnabled bool
	}{
		{"enable records consent", (*Config).Enable, true},
		{"disable records consent", (*Config).Disable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.apply(cfg)
			if cfg.Enabled != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", cfg.Enabled, tt.wantEnabled)
			}
			if !cfg.ConsentAsked {
				t.Error("any explicit choice counts as consent asked")
			}
			if cfg.NeedsConsent() {
				t.Error("NeedsConsent should be false after a choice")
			}
		})
	}
}

func TestNeedsConsentBeforeAnyChoice(t *testing.T) {
	cfg := &Config{}
	if !cfg.NeedsConsent() {
		t.Error("an unasked config needs consent")
	}
	if cfg.IsEnabled() {
		t.Error("telemetry must be off before consent")
	}
}

func TestSaveCreatesNestedConfigDir(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "deep", "config")
	SetConfigDir(nested)
	t.Cleanup(func() { SetConfigDir("") })

	cfg := &Config{Enabled: true, ConsentAsked: true, AnonymousID: "id-1"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(nested); err != nil {
		t.Errorf("Save() should create missing directories: %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := useTempConfigDir(t)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if want := filepath.Join(dir, ConfigFileName); path != want {
		t.Errorf("GetConfigPath() = %q, want %q", path, want)
	}
}
