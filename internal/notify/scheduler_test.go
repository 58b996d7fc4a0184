package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/tickd/internal/scheduler"
)

func newTestLocal(t *testing.T, granted bool) (*Local, *scheduler.Engine) {
	t.Helper()
	engine := scheduler.NewEngine(4)
	local, err := NewLocal(engine, granted)
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	seq := 0
	local.newID = func() string {
		seq++
		return fmt.Sprintf("notif-%d", seq)
	}
	local.now = func() time.Time { return time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC) }
	return local, engine
}

func TestNewLocalRequiresEngine(t *testing.T) {
	if _, err := NewLocal(nil, true); !errors.Is(err, ErrNilEngine) {
		t.Fatalf("expected ErrNilEngine, got %v", err)
	}
}

func TestRequestPermissionFollowsPolicy(t *testing.T) {
	granted, _ := newTestLocal(t, true)
	perm, err := granted.RequestPermission(context.Background())
	if err != nil || perm != PermissionGranted {
		t.Fatalf("expected granted, got %s (%v)", perm, err)
	}

	denied, _ := newTestLocal(t, false)
	perm, err = denied.RequestPermission(context.Background())
	if err != nil || perm != PermissionDenied {
		t.Fatalf("expected denied, got %s (%v)", perm, err)
	}
}

func TestScheduleQueuesOnEngine(t *testing.T) {
	local, engine := newTestLocal(t, true)
	id, err := local.Schedule(context.Background(), Payload{Title: " Thing due ", Body: "Do it"}, 10*time.Second)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if id != "notif-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if !engine.IsPending(id) {
		t.Fatal("expected notification pending on engine")
	}
}

func TestScheduleRejectsNonPositiveDelay(t *testing.T) {
	local, engine := newTestLocal(t, true)
	if _, err := local.Schedule(context.Background(), Payload{Title: "x"}, 0); !errors.Is(err, ErrInvalidDelay) {
		t.Fatalf("expected ErrInvalidDelay, got %v", err)
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected nothing queued, got %d", engine.Pending())
	}
}

func TestScheduleFailsOnStoppedEngine(t *testing.T) {
	local, engine := newTestLocal(t, true)
	engine.Start()
	engine.Stop()
	if _, err := local.Schedule(context.Background(), Payload{Title: "x"}, time.Second); !errors.Is(err, scheduler.ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestCancelTwiceIsNotAnError(t *testing.T) {
	local, engine := newTestLocal(t, true)
	ctx := context.Background()
	first, err := local.Schedule(ctx, Payload{Title: "a"}, time.Hour)
	if err != nil {
		t.Fatalf("schedule first: %v", err)
	}
	second, err := local.Schedule(ctx, Payload{Title: "b"}, time.Hour)
	if err != nil {
		t.Fatalf("schedule second: %v", err)
	}

	if err := local.Cancel(ctx, first); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if err := local.Cancel(ctx, first); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if err := local.Cancel(ctx, ""); err != nil {
		t.Fatalf("empty cancel: %v", err)
	}
	if engine.IsPending(first) {
		t.Fatal("cancelled notification still pending")
	}
	if !engine.IsPending(second) {
		t.Fatal("unrelated notification was cancelled")
	}
}

func TestCancelHonoursCancelledContext(t *testing.T) {
	local, engine := newTestLocal(t, true)
	id, err := local.Schedule(context.Background(), Payload{Title: "a"}, time.Hour)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := local.Cancel(ctx, id); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !engine.IsPending(id) {
		t.Fatal("notification removed despite cancelled context")
	}
}

func TestRequestPermissionCancelledContextIsUnknown(t *testing.T) {
	local, _ := newTestLocal(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	perm, err := local.RequestPermission(ctx)
	if !errors.Is(err, context.Canceled) || perm != PermissionUnknown {
		t.Fatalf("expected unknown permission with context.Canceled, got %s (%v)", perm, err)
	}
}

func TestRestoreReArmsUnderOriginalID(t *testing.T) {
	local, engine := newTestLocal(t, true)
	ctx := context.Background()
	fireAt := local.now().Add(30 * time.Minute)

	if err := local.Restore(ctx, "persisted-1", Payload{Title: " Thing "}, fireAt); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !engine.IsPending("persisted-1") {
		t.Fatal("expected restored id pending")
	}
	if err := local.Restore(ctx, "persisted-1", Payload{Title: "Thing"}, fireAt); err != nil {
		t.Fatalf("second restore: %v", err)
	}
	if got := engine.Pending(); got != 1 {
		t.Fatalf("expected a single pending notification, got %d", got)
	}
	if err := local.Cancel(ctx, "persisted-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if engine.IsPending("persisted-1") {
		t.Fatal("restored notification should be cancellable")
	}
}

func TestRestoreRejectsPastFireTime(t *testing.T) {
	local, engine := newTestLocal(t, true)
	err := local.Restore(context.Background(), "old", Payload{}, local.now().Add(-time.Minute))
	if !errors.Is(err, ErrInvalidDelay) {
		t.Fatalf("expected ErrInvalidDelay, got %v", err)
	}
	if engine.IsPending("old") {
		t.Fatal("past notification must not be queued")
	}
	if err := local.Restore(context.Background(), "  ", Payload{}, local.now().Add(time.Minute)); err != nil {
		t.Fatalf("empty id restore: %v", err)
	}
}

func TestEscapeAppleScript(t *testing.T) {
	if got := escapeAppleScript(`say "hi"`); got != `say \"hi\"` {
		t.Fatalf("unexpected escape: %s", got)
	}
}
