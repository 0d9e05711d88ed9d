package cli

import (
	"bytes"
	"strings"
	"testing"
)

const testData = "../listing/testdata/listings.csv"

// isolate points HOME at a temp dir and clears LX_* so tests never see the
// developer's config.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LX_DATA", "")
	t.Setenv("LX_DB", "")
	t.Setenv("LX_SIDEBAR_IMAGE", "")
	return home
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, sub := range []string{"serve", "summary", "filter", "rooms", "hosts", "correlate", "chart", "import", "export", "config", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing subcommand %q", sub)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"format", "data", "db", "config"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}
	if f := cmd.PersistentFlags().Lookup("format"); f.DefValue != "text" {
		t.Errorf("--format default = %q, want text", f.DefValue)
	}
}

func TestVersion(t *testing.T) {
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != Version {
		t.Errorf("version output = %q, want %q", out, Version)
	}
}

func TestUnknownFormat(t *testing.T) {
	isolate(t)
	_, err := executeCommand("rooms", "--data", testData, "--format", "yaml")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("error = %v, want unknown format", err)
	}
}

func TestMissingData(t *testing.T) {
	isolate(t)
	_, err := executeCommand("summary", "--data", "does-not-exist.csv")
	if err == nil || !strings.Contains(err.Error(), "data unavailable") {
		t.Errorf("error = %v, want data unavailable", err)
	}
}
