package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/devlens-ai/devlens/pkg/models"
	"github.com/devlens-ai/devlens/pkg/store"
)

// writeTestConfig points the CLI at a file-backed store in a temp dir.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "devlens.yaml")
	content := fmt.Sprintf("store:\n  backend: file\n  path: %s\n", filepath.Join(dir, "store.json"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func openTestStore(t *testing.T, cfgPath string) (*store.Store, func() error) {
	t.Helper()
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	st, closeStore, err := openStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return st, closeStore
}

func TestCacheOptimizeSavesSnapshot(t *testing.T) {
	cfgPath := writeTestConfig(t)

	cmd := newCacheCmd()
	cmd.SetArgs([]string{"optimize", "--config", cfgPath})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}

	st, closeStore := openTestStore(t, cfgPath)
	defer func() { _ = closeStore() }()

	snap, err := st.MetricsSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap == nil {
		t.Fatal("optimize should persist a metrics snapshot")
	}
	if snap.CapturedAt.IsZero() {
		t.Error("snapshot should carry its capture time")
	}
}

func TestCacheStatsAndClear(t *testing.T) {
	cfgPath := writeTestConfig(t)

	st, closeStore := openTestStore(t, cfgPath)
	_ = st.SavePreferences(models.DefaultPreferences())
	if _, err := st.SaveGeneration(models.GenerationRecord{Prompt: "p"}); err != nil {
		t.Fatal(err)
	}
	_ = closeStore()

	for _, args := range [][]string{
		{"stats", "--config", cfgPath},
		{"clear", "--pattern", "history:", "--config", cfgPath},
		{"clear", "--config", cfgPath},
	} {
		cmd := newCacheCmd()
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			t.Fatalf("cache %v: %v", args, err)
		}
	}
}

func TestReportAfterOptimize(t *testing.T) {
	cfgPath := writeTestConfig(t)

	optimize := newCacheCmd()
	optimize.SetArgs([]string{"optimize", "--config", cfgPath})
	if err := optimize.Execute(); err != nil {
		t.Fatal(err)
	}

	// The report folds in the snapshot optimize just persisted; both
	// commands must run cleanly against the same substrate.
	report := newReportCmd()
	report.SetArgs([]string{"--config", cfgPath})
	if err := report.Execute(); err != nil {
		t.Fatal(err)
	}
}
