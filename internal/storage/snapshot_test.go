package storage

import (
	"os"
	"testing"
	"time"

	"crypto_tracker/internal/domain"

	"github.com/shopspring/decimal"
)

func TestSnapshot_SaveAndLoad(t *testing.T) {
	sm := NewSnapshotManager(t.TempDir())

	coins := []domain.Coin{
		{ID: "bitcoin", Rank: 1, Symbol: "BTC", PriceUsd: decimal.RequireFromString("64000.123456789")},
	}
	snap := CreateSnapshot(coins, time.UnixMilli(1700000000000))
	coins[0].ID = "mutated"

	if _, err := sm.Save(snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := sm.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if loaded.TsMilli != 1700000000000 {
		t.Errorf("TsMilli = %d", loaded.TsMilli)
	}
	if loaded.Coins[0].ID != "bitcoin" {
		t.Errorf("snapshot must copy its input, got %s", loaded.Coins[0].ID)
	}
	if !loaded.Coins[0].PriceUsd.Equal(decimal.RequireFromString("64000.123456789")) {
		t.Errorf("price lost precision: %s", loaded.Coins[0].PriceUsd)
	}
}

func TestSnapshot_LoadLatest_Empty(t *testing.T) {
	sm := NewSnapshotManager(t.TempDir() + "/missing")

	snap, err := sm.LoadLatest()
	if err != nil || snap != nil {
		t.Errorf("expected nil, nil; got %v, %v", snap, err)
	}
}

func TestSnapshot_LatestAndCleanup(t *testing.T) {
	dir := t.TempDir()
	sm := NewSnapshotManager(dir)

	for _, ts := range []int64{1000, 5000, 3000} {
		snap := &Snapshot{TsMilli: ts, Coins: []domain.Coin{{ID: "c"}}}
		if _, err := sm.Save(snap); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	latest, err := sm.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest failed: %v", err)
	}
	if latest.TsMilli != 5000 {
		t.Errorf("expected newest snapshot 5000, got %d", latest.TsMilli)
	}

	if err := sm.Cleanup(2); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("expected 2 snapshots after cleanup, got %d", len(entries))
	}
	if _, err := os.Stat(dir + "/coins_1000.json"); !os.IsNotExist(err) {
		t.Error("oldest snapshot should be removed")
	}
}

func TestSnapshot_CleanupNegativeKeepsNothing(t *testing.T) {
	dir := t.TempDir()
	sm := NewSnapshotManager(dir)

	if _, err := sm.Save(&Snapshot{TsMilli: 1000}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := sm.Cleanup(-1); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no snapshots left, got %d", len(entries))
	}
}
