package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCoinsCmd_RejectsNonPositiveKeep(t *testing.T) {
	for _, keep := range []string{"0", "-1"} {
		if _, err := executeRoot(t, "coins", "--save", "--keep", keep); err == nil {
			t.Errorf("--keep %s: expected error", keep)
		}
	}
}

func TestJournalCmd_DisabledDoesNotCreateDatabase(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("workspace override via XDG_DATA_HOME is linux-only")
	}
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	cfg := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfg, []byte("storage:\n  journal_enabled: false\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := executeRoot(t, "--config", cfg, "journal")
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	if !strings.Contains(out, "journal disabled") {
		t.Errorf("unexpected output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "crypto-tracker", "data", "journal.db")); !os.IsNotExist(err) {
		t.Error("a disabled journal must not be created")
	}
}
