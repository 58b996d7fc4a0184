package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/tickd/internal/scheduler"
)

var (
	ErrNilEngine    = errors.New("notify: nil scheduler engine")
	ErrInvalidDelay = errors.New("notify: delay must be positive")
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
	// PermissionUnknown is reported when the request itself failed.
	PermissionUnknown Permission = "unknown"
)

type Payload struct {
	Title string
	Body  string
}

// Scheduler is the device notification API the countdown drives.
// Cancel must accept unknown or already delivered ids.
type Scheduler interface {
	RequestPermission(ctx context.Context) (Permission, error)
	Schedule(ctx context.Context, payload Payload, delay time.Duration) (string, error)
	Cancel(ctx context.Context, id string) error
}

// Restorer re-arms a previously issued notification under its original id,
// for schedulers whose pending set does not survive a restart.
type Restorer interface {
	Restore(ctx context.Context, id string, payload Payload, fireAt time.Time) error
}

// Local schedules notifications on an in-process engine. Permission is a
// fixed policy decided at startup.
type Local struct {
	engine  *scheduler.Engine
	granted bool
	now     func() time.Time
	newID   func() string
}

func NewLocal(engine *scheduler.Engine, granted bool) (*Local, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	return &Local{
		engine:  engine,
		granted: granted,
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

func (l *Local) RequestPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionUnknown, err
	}
	if l.granted {
		return PermissionGranted, nil
	}
	return PermissionDenied, nil
}

func (l *Local) Schedule(ctx context.Context, payload Payload, delay time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if delay <= 0 {
		return "", fmt.Errorf("%w: %s", ErrInvalidDelay, delay)
	}
	id := l.newID()
	err := l.engine.Schedule(scheduler.Notification{
		ID:     id,
		Title:  strings.TrimSpace(payload.Title),
		Body:   strings.TrimSpace(payload.Body),
		FireAt: l.now().Add(delay),
	})
	if err != nil {
		return "", fmt.Errorf("schedule notification: %w", err)
	}
	return id, nil
}

func (l *Local) Cancel(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return nil
	}
	l.engine.Cancel(id)
	return nil
}

// Restore puts id back on the engine to fire at fireAt. An id that is
// already pending is left alone.
func (l *Local) Restore(ctx context.Context, id string, payload Payload, fireAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" || l.engine.IsPending(id) {
		return nil
	}
	if !fireAt.After(l.now()) {
		return fmt.Errorf("%w: fire time %s already passed", ErrInvalidDelay, fireAt.Format(time.RFC3339))
	}
	err := l.engine.Schedule(scheduler.Notification{
		ID:     id,
		Title:  strings.TrimSpace(payload.Title),
		Body:   strings.TrimSpace(payload.Body),
		FireAt: fireAt,
	})
	if err != nil {
		return fmt.Errorf("restore notification: %w", err)
	}
	return nil
}
