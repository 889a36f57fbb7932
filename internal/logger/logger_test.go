package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestTaggedLines(t *testing.T) {
	color.NoColor = true

	got := captureStdout(t, func() {
		Info("TABLE", "parsed systems.csv")
		Success("DB", "opened")
		Warn("API", "slow render")
		Error("Server", "boom")
	})

	for _, want := range []string{"[TABLE] parsed systems.csv", "[DB] opened", "[API] slow render", "[Server] boom"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestBanner_DefaultsVersion(t *testing.T) {
	color.NoColor = true

	got := captureStdout(t, func() {
		Banner("")
	})
	if !strings.Contains(got, "DynamicSector dev") {
		t.Errorf("Banner(\"\") = %q, want version dev", got)
	}
}

func TestSectionAndStats(t *testing.T) {
	color.NoColor = true

	got := captureStdout(t, func() {
		Section("Scene")
		Stats("stars", 42)
		Server("127.0.0.1:8050")
	})
	if !strings.Contains(got, "Scene") || !strings.Contains(got, "42") {
		t.Errorf("unexpected output: %q", got)
	}
	if !strings.Contains(got, "http://127.0.0.1:8050") {
		t.Errorf("Server line missing address: %q", got)
	}
}
