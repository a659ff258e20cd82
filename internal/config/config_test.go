package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/whiscribe/whiscribe/internal/config"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_STATE_HOME", "")
	chdir(t, t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "whiscribe", "config.toml"); resolved != want {
		t.Errorf("resolved = %q, want %q", resolved, want)
	}

	if cfg.Library.Kind != "any" || cfg.Library.Recursive {
		t.Errorf("unexpected library defaults %+v", cfg.Library)
	}
	if cfg.TickInterval() != 250*time.Millisecond {
		t.Errorf("TickInterval() = %v", cfg.TickInterval())
	}
	if want := filepath.Join(tempHome, ".local", "state", "whiscribe"); cfg.Paths.StateDir != want {
		t.Errorf("StateDir = %q, want %q", cfg.Paths.StateDir, want)
	}
}

func TestLoadProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)

	contents := "[library]\nrecursive = true\n"
	if err := os.WriteFile(filepath.Join(dir, "whiscribe.toml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || !cfg.Library.Recursive {
		t.Errorf("expected project config to be used, exists=%v cfg=%+v", exists, cfg.Library)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "custom.toml")
	contents := `
[library]
kind = " MP3 "
recursive = true

[subtitles]
drop_inverted_cues = true

[player]
tick_interval_ms = 100

[logging]
format = "JSON"
level = "Debug"

[paths]
state_dir = "~/state"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected custom path to be used, got %q exists=%v", resolved, exists)
	}

	if cfg.Library.Kind != "audio" || !cfg.Library.Recursive {
		t.Errorf("unexpected library %+v", cfg.Library)
	}
	if !cfg.Subtitles.DropInvertedCues {
		t.Error("expected drop_inverted_cues")
	}
	if cfg.TickInterval() != 100*time.Millisecond {
		t.Errorf("TickInterval() = %v", cfg.TickInterval())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, "state") {
		t.Errorf("expected expanded state dir, got %q", cfg.Paths.StateDir)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists || resolved != path || cfg == nil {
		t.Errorf("expected defaults for a missing file, got exists=%v resolved=%q", exists, resolved)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.toml")
	if err := os.WriteFile(path, []byte("[player]\ntick_interval = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path, false); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "tick_interval_ms") {
		t.Fatalf("sample config missing player section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Player.TickIntervalMS != 250 {
		t.Errorf("sample tick interval = %d", cfg.Player.TickIntervalMS)
	}

	if err := config.CreateSample(path, false); err == nil {
		t.Error("expected error when the file already exists")
	}
	if err := config.CreateSample(path, true); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Player.TickIntervalMS = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive tick interval")
	}

	cfg = config.Default()
	cfg.Player.TickIntervalMS = 60000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for oversized tick interval")
	}

	cfg = config.Default()
	cfg.Library.Kind = "flac"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown media kind")
	}

	cfg = config.Default()
	cfg.Logging.Level = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEncode(t *testing.T) {
	cfg := config.Default()
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(out, "[player]") || !strings.Contains(out, "tick_interval_ms = 250") {
		t.Errorf("unexpected encoding:\n%s", out)
	}
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
