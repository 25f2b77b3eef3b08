package shopping

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/avivm/shoplist/internal/database"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDeadlineMapsToPersistenceTimeout(t *testing.T) {
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// A nanosecond budget is spent before the first query runs.
	s := New(db, time.Nanosecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if _, err := s.GetUser(context.Background(), 1); !errors.Is(err, ErrPersistenceTimeout) {
		t.Fatalf("err = %v, want ErrPersistenceTimeout", err)
	}
}

func seedUser(t *testing.T, s *Service, id int64, firstName string, admin bool) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.users.Upsert(ctx, id, "", firstName, "", "en"); err != nil {
		t.Fatalf("seed user %d: %v", id, err)
	}
	if err := s.users.SetAuthorized(ctx, id, true); err != nil {
		t.Fatalf("authorize user %d: %v", id, err)
	}
	if admin {
		if err := s.users.SetAdmin(ctx, id, true); err != nil {
			t.Fatalf("promote user %d: %v", id, err)
		}
	}
}
