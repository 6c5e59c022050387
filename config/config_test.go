package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zenibako/cuesheet/cuesheet"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendFile || cfg.QLab.Port != DefaultQLabPort {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Settings != cuesheet.DefaultSettings() {
		t.Errorf("expected default settings, got %+v", cfg.Settings)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `backend: sqlite
qlab:
  passcode: "4321"
settings:
  default_cue_type: SFX
  auto_save: false
  snap_threshold: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.Backend)
	}
	if cfg.QLab.Host != DefaultQLabHost || cfg.QLab.Passcode != "4321" {
		t.Errorf("unexpected qlab config %+v", cfg.QLab)
	}
	s := cfg.Settings
	if s.DefaultCueType != cuesheet.CueTypeSFX || s.AutoSave || s.SnapThreshold != 5 {
		t.Errorf("file values not applied: %+v", s)
	}
	if !s.AutoNumberCues || s.SnapDistance != 120 || s.DefaultCueColor != "#FF0000" {
		t.Errorf("missing keys should keep defaults: %+v", s)
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(path, []byte("backend: postgres\nqlab:\n  port: 70000\nsettings:\n  scale: 12\n"), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("unknown backend should fall back to file, got %s", cfg.Backend)
	}
	if cfg.QLab.Port != DefaultQLabPort {
		t.Errorf("bad port should fall back, got %d", cfg.QLab.Port)
	}
	if cfg.Settings.Scale != cuesheet.DefaultScale {
		t.Errorf("bad scale should fall back, got %v", cfg.Settings.Scale)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	_ = os.WriteFile(path, []byte("settings: [unterminated"), 0644)

	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.Settings.ConfirmDelete = false
	cfg.QLab.Host = "10.0.0.5"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestPathHonoursHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CUESHEET_HOME", dir)
	if Path() != filepath.Join(dir, "config.yaml") {
		t.Errorf("unexpected path %s", Path())
	}
	if Defaults().DataDir != filepath.Join(dir, "data") {
		t.Errorf("unexpected data dir %s", Defaults().DataDir)
	}
}
