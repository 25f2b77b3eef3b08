package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHOPLIST_DATABASE_URL", "")
	t.Setenv("SHOPLIST_ADMIN_IDS", "")
	t.Setenv("SHOPLIST_QUERY_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "shoplist.db" {
		t.Errorf("database url = %q, want shoplist.db", cfg.DatabaseURL)
	}
	if cfg.QueryTimeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", cfg.QueryTimeout)
	}
	if len(cfg.AdminIDs) != 0 {
		t.Errorf("admin ids = %v, want none", cfg.AdminIDs)
	}
}

func TestLoadAdminIDs(t *testing.T) {
	t.Setenv("SHOPLIST_ADMIN_IDS", " 123, 456 ,,789 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []int64{123, 456, 789}
	if len(cfg.AdminIDs) != len(want) {
		t.Fatalf("admin ids = %v, want %v", cfg.AdminIDs, want)
	}
	for i := range want {
		if cfg.AdminIDs[i] != want[i] {
			t.Errorf("admin ids[%d] = %d, want %d", i, cfg.AdminIDs[i], want[i])
		}
	}
}

func TestLoadBadAdminIDs(t *testing.T) {
	t.Setenv("SHOPLIST_ADMIN_IDS", "123,abc")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric admin id")
	}
}

func TestLoadQueryTimeout(t *testing.T) {
	t.Setenv("SHOPLIST_ADMIN_IDS", "")
	t.Setenv("SHOPLIST_QUERY_TIMEOUT", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.QueryTimeout != 250*time.Millisecond {
		t.Errorf("timeout = %s, want 250ms", cfg.QueryTimeout)
	}

	t.Setenv("SHOPLIST_QUERY_TIMEOUT", "-1s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}
