package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"crypto_tracker/internal/infra"
)

func setupWorkspace(t *testing.T, journal bool) string {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("workspace override via XDG_DATA_HOME is linux-only")
	}
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	content := "storage:\n  journal_enabled: false\n"
	if journal {
		content = "storage:\n  journal_enabled: true\n"
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBootstrap_Interactive(t *testing.T) {
	path := setupWorkspace(t, true)

	b := NewBootstrap()
	if err := b.Initialize(Options{ConfigPath: path, Interactive: true}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if b.DataSource == nil || b.Journal == nil || b.Snapshots == nil {
		t.Fatalf("components not initialized: %+v", b)
	}

	// A second interactive session must not share the journal.
	other := NewBootstrap()
	if err := other.Initialize(Options{ConfigPath: path, Interactive: true}); err == nil {
		t.Error("expected lock error for a second instance")
	}
	other.Close()

	vm := b.NewCoinListViewModel(context.Background())
	vm.Close()

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(b.WorkDir, "instance.lock")); !os.IsNotExist(err) {
		t.Error("lock file should be removed on Close")
	}
}

func TestBootstrap_NonInteractiveSkipsJournal(t *testing.T) {
	path := setupWorkspace(t, true)

	b := NewBootstrap()
	defer b.Close()
	if err := b.Initialize(Options{ConfigPath: path}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if b.Journal != nil {
		t.Error("one-shot commands must not open the journal writer")
	}
}

func TestBootstrap_MissingExplicitConfig(t *testing.T) {
	setupWorkspace(t, false)

	b := NewBootstrap()
	defer b.Close()
	if err := b.Initialize(Options{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Error("expected error for a missing explicit config")
	}
}

func TestBootstrap_UserAgentFollowsConfiguredVersion(t *testing.T) {
	setupWorkspace(t, false)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  version: 2.3.4\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	prev := infra.GetUserAgent()
	t.Cleanup(func() { infra.SetUserAgent(prev) })

	b := NewBootstrap()
	defer b.Close()
	if err := b.Initialize(Options{ConfigPath: path}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if ua := infra.GetUserAgent(); !strings.HasPrefix(ua, infra.AppName+"/2.3.4 ") {
		t.Errorf("user agent %q does not carry the configured version", ua)
	}
}
