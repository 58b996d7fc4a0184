package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrEmptyKey       = errors.New("storage: empty key")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// KV is the string key-value contract the screens persist through. Get reports
// a missing key with ok=false and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Store is a KV that owns a connection.
type Store interface {
	KV
	Close() error
}

// Stamper is implemented by stores that track when a key was last written.
// UpdatedAt returns ErrNotFound for a key never written.
type Stamper interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

type Options struct {
	Backend     Backend
	SQLitePath  string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		return OpenSQLite(opts.SQLitePath)
	case BackendRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisDB, opts.RedisPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
)

func ParseBackend(raw string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(raw))); b {
	case BackendSQLite, BackendRedis:
		return b, nil
	case "":
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, raw)
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
