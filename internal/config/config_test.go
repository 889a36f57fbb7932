package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// withConfigHome points XDG_CONFIG_HOME at a temp dir for the test.
func withConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	want := "/custom/config/dsector/config.yml"
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestDefault_Values(t *testing.T) {
	c := Default()
	if c.Addr != "127.0.0.1:8050" {
		t.Errorf("Addr = %q", c.Addr)
	}
	if c.Title != "Nyxal's Reach" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.Mode != "3d" {
		t.Errorf("Mode = %q, want 3d", c.Mode)
	}
	if c.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", c.SessionTTL)
	}
}

func TestLoad_NotFoundReturnsDefaults(t *testing.T) {
	withConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	home := withConfigHome(t)
	dir := filepath.Join(home, ConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "addr: 0.0.0.0:9000\ntitle: Outer Rim\nseed: 7\nsession_ttl: 2h\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != "0.0.0.0:9000" || cfg.Title != "Outer Rim" || cfg.Seed != 7 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v, want 2h", cfg.SessionTTL)
	}
	if cfg.Mode != "3d" {
		t.Errorf("Mode = %q, want default 3d", cfg.Mode)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	home := withConfigHome(t)
	dir := filepath.Join(home, ConfigDir)
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, ConfigFile), []byte("addr: [unclosed"), 0644)

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	withConfigHome(t)
	t.Setenv("DSECTOR_ADDR", "localhost:1234")
	t.Setenv("DSECTOR_MODE", "2d")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != "localhost:1234" {
		t.Errorf("Addr = %q, want env override", cfg.Addr)
	}
	if cfg.Mode != "2d" {
		t.Errorf("Mode = %q, want 2d", cfg.Mode)
	}
}

func TestLoad_EnvInvalid(t *testing.T) {
	withConfigHome(t)
	t.Setenv("DSECTOR_SEED", "not-a-number")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid DSECTOR_SEED")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	withConfigHome(t)

	cfg := Default()
	if err := cfg.Set("title", "Kessel Run"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Title != "Kessel Run" {
		t.Errorf("Title = %q after round trip", got.Title)
	}
}

func TestLoadFile_IgnoresEnvAndDefaults(t *testing.T) {
	withConfigHome(t)
	t.Setenv("DSECTOR_SEED", "7")

	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if err := cfg.Set("title", "Kessel Run"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "title: Kessel Run\n" {
		t.Errorf("saved config = %q, want only the title", got)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Seed != 7 || loaded.Title != "Kessel Run" || loaded.Addr != "127.0.0.1:8050" {
		t.Errorf("Load() = %+v", loaded)
	}

	t.Setenv("DSECTOR_SEED", "")
	again, err := LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if again.Seed != 0 || again.Title != "Kessel Run" {
		t.Errorf("LoadFile() = %+v", again)
	}
}

func TestGetSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{key: "addr", value: ":8080", want: ":8080"},
		{key: "db-path", value: "/tmp/x.db", want: "/tmp/x.db"},
		{key: "mode", value: "2D", want: "2d"},
		{key: "mode", value: "4d", wantErr: true},
		{key: "seed", value: "42", want: "42"},
		{key: "seed", value: "-1", wantErr: true},
		{key: "upload_rate", value: "0.5", want: "0.5"},
		{key: "session_ttl", value: "90m", want: "1h30m0s"},
		{key: "nexus", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Default()
			err := cfg.Set(tt.key, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Set(%q, %q) expected error", tt.key, tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(%q, %q) error = %v", tt.key, tt.value, err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Default().Get("pdf_root")
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Get(pdf_root) error = %v, want ErrUnknownKey", err)
	}
}

func TestValues_HasAllKeys(t *testing.T) {
	values := Default().Values()
	for _, k := range Keys() {
		if _, ok := values[k]; !ok {
			t.Errorf("Values() missing %q", k)
		}
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got := ExpandTilde("~/maps"); got != filepath.Join(home, "maps") {
		t.Errorf("ExpandTilde(~/maps) = %q", got)
	}
	if got := ExpandTilde("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandTilde(/abs/path) = %q", got)
	}
}
