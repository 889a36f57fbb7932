package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/dynamicsector/dynamicsector/internal/config"
)

func TestSetConfigValue_KeepsEnvOutOfFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DSECTOR_SEED", "7")

	got, err := setConfigValue("title", "Kessel Run")
	if err != nil {
		t.Fatalf("setConfigValue() error = %v", err)
	}
	if got != "Kessel Run" {
		t.Errorf("value = %q", got)
	}

	data, err := os.ReadFile(config.Path())
	if err != nil {
		t.Fatal(err)
	}
	for _, leaked := range []string{"seed", "addr", "session_ttl"} {
		if strings.Contains(string(data), leaked) {
			t.Errorf("config file persisted %s:\n%s", leaked, data)
		}
	}

	if _, err := setConfigValue("mode", "2d"); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Title != "Kessel Run" || cfg.Mode != "2d" || cfg.Seed != 0 {
		t.Errorf("file config = %+v", cfg)
	}
}

func TestSetConfigValue_Errors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := setConfigValue("warp", "9"); !errors.Is(err, config.ErrUnknownKey) {
		t.Errorf("unknown key error = %v", err)
	}
	if _, err := setConfigValue("mode", "4d"); err == nil {
		t.Error("invalid mode accepted")
	}
	if _, err := os.Stat(config.Path()); !os.IsNotExist(err) {
		t.Errorf("failed set wrote the config file: %v", err)
	}
}
