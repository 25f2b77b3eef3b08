package store

import (
	"context"
	"testing"

	"github.com/avivm/shoplist/internal/database"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustUser(t *testing.T, us *UserStore, id int64, firstName string) {
	t.Helper()
	if _, err := us.Upsert(context.Background(), id, "", firstName, "", "en"); err != nil {
		t.Fatalf("create user %d: %v", id, err)
	}
}
