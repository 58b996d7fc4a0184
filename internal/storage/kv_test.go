package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestParseBackend(t *testing.T) {
	cases := []struct {
		in   string
		want Backend
	}{
		{"", BackendSQLite},
		{"sqlite", BackendSQLite},
		{" Redis ", BackendRedis},
	}
	for _, tc := range cases {
		got, err := ParseBackend(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q got %s want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseBackend("etcd"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestOpenSQLiteBackend(t *testing.T) {
	store, err := Open(context.Background(), Options{
		Backend:    BackendSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "open.db"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	if err := store.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), Options{Backend: "etcd"}); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestNewRedisKVRequiresClient(t *testing.T) {
	if _, err := NewRedisKV(nil, "tickd:"); err == nil {
		t.Fatal("expected error for nil client")
	}
}
