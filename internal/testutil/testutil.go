// Package testutil provides shared test helpers for setting up catalog
// databases and profile stores.
package testutil

import (
	"os"
	"testing"

	"niftynet/internal/catalog"
	"niftynet/internal/personalization"
)

// TestDB creates a temporary SQLite catalog database that is automatically cleaned up.
func TestDB(t *testing.T) *catalog.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "niftynet-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestProfile creates a temporary profile directory with a personalization store.
func TestProfile(t *testing.T) (string, *personalization.Store) {
	t.Helper()
	profileDir := t.TempDir()
	store, err := personalization.NewStore(profileDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	return profileDir, store
}
