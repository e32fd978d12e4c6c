package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Search.AzTolDeg != 0.5 {
		t.Errorf("expected az tolerance 0.5, got %v", cfg.Search.AzTolDeg)
	}
	if cfg.Search.WindowDays != 30 {
		t.Errorf("expected window 30 days, got %d", cfg.Search.WindowDays)
	}
	if cfg.StepDuration() != 5*time.Minute {
		t.Errorf("expected step 5m, got %v", cfg.StepDuration())
	}
	if cfg.RefineDuration() != time.Second {
		t.Errorf("expected refine 1s, got %v", cfg.RefineDuration())
	}
	if cfg.MinSepDuration() != 10*time.Second {
		t.Errorf("expected min_sep 10s, got %v", cfg.MinSepDuration())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Search.Step != "5m" {
		t.Errorf("expected default step, got %s", cfg.Search.Step)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Observer.Location = "40.0,-105.0,1600"
	cfg.Search.AzTolDeg = 0.25
	cfg.Search.Step = "2m"
	cfg.Locations["cabin"] = "41.0,-105.5,2200"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Observer.Location != "40.0,-105.0,1600" {
		t.Errorf("observer not preserved: %s", loaded.Observer.Location)
	}
	if loaded.Search.AzTolDeg != 0.25 {
		t.Errorf("az tolerance not preserved: %v", loaded.Search.AzTolDeg)
	}
	if loaded.StepDuration() != 2*time.Minute {
		t.Errorf("step not preserved: %v", loaded.StepDuration())
	}
	if loaded.Locations["cabin"] != "41.0,-105.5,2200" {
		t.Errorf("named location not preserved: %v", loaded.Locations)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SKYALIGN_DB", "/tmp/other.db")
	t.Setenv("SKYALIGN_OBSERVER", "51.5,-0.1")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Storage.DatabasePath != "/tmp/other.db" {
		t.Errorf("SKYALIGN_DB not applied: %s", cfg.Storage.DatabasePath)
	}
	if cfg.Observer.Location != "51.5,-0.1" {
		t.Errorf("SKYALIGN_OBSERVER not applied: %s", cfg.Observer.Location)
	}
}

func TestDefaultPathEnvOverride(t *testing.T) {
	t.Setenv("SKYALIGN_CONFIG", "/etc/skyalign.yaml")
	if got := DefaultPath(); got != "/etc/skyalign.yaml" {
		t.Errorf("expected env path, got %s", got)
	}

	os.Unsetenv("SKYALIGN_CONFIG")
	if got := DefaultPath(); got == "/etc/skyalign.yaml" {
		t.Error("env path should not stick after unset")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Step = "not-a-duration"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for bad step duration")
	}

	cfg = DefaultConfig()
	cfg.Observer.Location = "91.0,0.0"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range latitude")
	}

	cfg = DefaultConfig()
	cfg.Locations["bad"] = "garbage"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unparseable named location")
	}
}

func TestResolveLocation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Locations["peak"] = "40.255,-105.616,4346"

	loc, err := cfg.ResolveLocation("@peak")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if loc.Lat != 40.255 || loc.Elev != 4346 {
		t.Errorf("unexpected location: %+v", loc)
	}

	if _, err := cfg.ResolveLocation("@unknown"); err == nil {
		t.Error("expected error for unknown name")
	}

	loc, err = cfg.ResolveLocation("40.0,-105.0,1600")
	if err != nil {
		t.Fatalf("decimal resolve failed: %v", err)
	}
	if loc.Lon != -105.0 {
		t.Errorf("unexpected longitude: %v", loc.Lon)
	}

	loc, err = cfg.ResolveLocation(`41°02'38"N 111°56'45"W 1,331 m`)
	if err != nil {
		t.Fatalf("DMS resolve failed: %v", err)
	}
	if loc.Lat < 41.0 || loc.Lat > 41.1 {
		t.Errorf("unexpected DMS latitude: %v", loc.Lat)
	}
}
