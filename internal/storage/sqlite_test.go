package storage

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreGetMissing(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	data, err := store.Get(CollectionBets)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if data != nil {
		t.Errorf("Expected nil for missing collection, got %q", data)
	}
}

func TestSQLiteStoreSetGet(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	payload := []byte(`{"current_bankroll":1250.5}`)
	if err := store.Set(CollectionBankroll, payload); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(CollectionBankroll)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Expected %s, got %s", payload, got)
	}
}

func TestSQLiteStoreOverwrite(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	if err := store.Set(CollectionTransactions, []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	updated := []byte(`[{"id":"01HZX","type":"DEPOSIT","amount":100}]`)
	if err := store.Set(CollectionTransactions, updated); err != nil {
		t.Fatalf("Second set failed: %v", err)
	}

	got, err := store.Get(CollectionTransactions)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, updated) {
		t.Errorf("Expected %s, got %s", updated, got)
	}
}

func TestSQLiteStoreCollectionsIndependent(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	if err := store.Set(CollectionBets, []byte(`[1]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(CollectionThresholds, []byte(`{}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	bets, _ := store.Get(CollectionBets)
	if !bytes.Equal(bets, []byte(`[1]`)) {
		t.Errorf("Writing one collection clobbered another: %s", bets)
	}
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := store.Set(CollectionBankroll, []byte(`{"initial_bankroll":500}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(CollectionBankroll)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, []byte(`{"initial_bankroll":500}`)) {
		t.Errorf("Expected persisted payload, got %s", got)
	}
}
