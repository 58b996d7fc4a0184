// Package countdown owns the persisted countdown record and derives the live
// overdue/remaining status from it.
package countdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/tickd/internal/model"
	"github.com/sandeepkv93/tickd/internal/notify"
	"github.com/sandeepkv93/tickd/internal/storage"
)

const (
	DefaultStorageKey = "countdown"
	DefaultInterval   = 10 * time.Second
)

var (
	ErrStorageRead      = errors.New("countdown: storage read failed")
	ErrStorageWrite     = errors.New("countdown: storage write failed")
	ErrSchedulingFailed = errors.New("countdown: notification scheduling failed")
	ErrCompleteInFlight = errors.New("countdown: complete already in progress")
	ErrNotReady         = errors.New("countdown: record not loaded")
)

// DuePayload is the notification sent when the countdown runs out.
var DuePayload = notify.Payload{
	Title: "The thing is due!",
	Body:  "It's time to do the thing again.",
}

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

type Options struct {
	Interval       time.Duration
	StorageKey     string
	PhysicalDevice bool
	Payload        notify.Payload
	Now            func() time.Time
	Logger         *slog.Logger
}

// CompleteResult describes what a successful Complete did.
type CompleteResult struct {
	Record         model.CountdownRecord
	Permission     notify.Permission
	NotificationID string
	// PermissionWarning is set when permission was denied on a physical
	// device and the user should be told notifications are off.
	PermissionWarning bool
	// SchedulingErr holds a non-fatal scheduling failure.
	SchedulingErr error
}

type Machine struct {
	store     storage.KV
	scheduler notify.Scheduler
	opts      Options
	log       *slog.Logger

	mu       sync.Mutex
	state    State
	record   model.CountdownRecord
	target   time.Time
	status   model.CountdownStatus
	savedAt  time.Time
	inFlight bool
}

func New(store storage.KV, sched notify.Scheduler, opts Options) (*Machine, error) {
	if store == nil {
		return nil, errors.New("countdown: nil storage")
	}
	if sched == nil {
		return nil, errors.New("countdown: nil notification scheduler")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}
	if opts.Payload == (notify.Payload{}) {
		opts.Payload = DuePayload
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		store:     store,
		scheduler: sched,
		opts:      opts,
		log:       logger.With("component", "countdown"),
		state:     StateLoading,
	}, nil
}

func (m *Machine) Interval() time.Duration { return m.opts.Interval }

// Load reads the record and moves the machine to Ready. A missing, unreadable
// or malformed record falls back to the zero state; the returned error is for
// logging only and the machine is Ready either way.
func (m *Machine) Load(ctx context.Context) error {
	rec, loadErr := m.readRecord(ctx)
	if loadErr != nil {
		m.log.Warn("countdown record unavailable, using empty record", "error", loadErr)
		rec = model.CountdownRecord{}
	}

	var savedAt time.Time
	if loadErr == nil {
		savedAt = m.readSavedAt(ctx)
	}

	now := m.opts.Now()
	target := model.TargetTime(rec, m.opts.Interval, now)
	m.restoreDue(ctx, rec, target, now)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.record = rec
	m.savedAt = savedAt
	m.target = target
	m.status = model.ComputeStatus(m.target, now)
	m.state = StateReady
	m.log.Info("countdown loaded", "completions", len(rec.CompletedAt), "target", m.target)
	return loadErr
}

func (m *Machine) readSavedAt(ctx context.Context) time.Time {
	st, ok := m.store.(storage.Stamper)
	if !ok {
		return time.Time{}
	}
	at, err := st.UpdatedAt(ctx, m.opts.StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.log.Warn("read countdown save time failed", "error", err)
		}
		return time.Time{}
	}
	return at
}

// restoreDue re-arms the persisted notification when the scheduler lost it
// across a restart. The record is never changed here.
func (m *Machine) restoreDue(ctx context.Context, rec model.CountdownRecord, target, now time.Time) {
	if !rec.HasNotification() || !target.After(now) {
		return
	}
	r, ok := m.scheduler.(notify.Restorer)
	if !ok {
		return
	}
	if err := r.Restore(ctx, rec.CurrentNotificationID, m.opts.Payload, target); err != nil {
		m.log.Warn("restore due notification failed", "notification_id", rec.CurrentNotificationID, "error_kind", "scheduling_failure", "error", err)
		return
	}
	m.log.Debug("due notification restored", "notification_id", rec.CurrentNotificationID, "fire_at", target)
}

func (m *Machine) readRecord(ctx context.Context) (model.CountdownRecord, error) {
	raw, ok, err := m.store.Get(ctx, m.opts.StorageKey)
	if err != nil {
		return model.CountdownRecord{}, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if !ok {
		return model.CountdownRecord{}, nil
	}
	rec, err := model.DecodeCountdownRecord(raw)
	if err != nil {
		return model.CountdownRecord{}, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	return rec, nil
}

// Tick recomputes the status for now. Before Load it returns the zero status.
func (m *Machine) Tick(now time.Time) model.CountdownStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateReady {
		return model.CountdownStatus{}
	}
	m.status = model.ComputeStatus(m.target, now)
	return m.status
}

func (m *Machine) Status() model.CountdownStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Machine) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateLoading
}

func (m *Machine) IsCompleting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

// LastSaved reports when the record was last persisted, if known.
func (m *Machine) LastSaved() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.savedAt, !m.savedAt.IsZero()
}

func (m *Machine) Record() model.CountdownRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record.Clone()
}

// Complete records a completion and reschedules the due notification. Only
// one call may run at a time; overlapping calls fail with
// ErrCompleteInFlight. Memory is updated only after the record is persisted.
func (m *Machine) Complete(ctx context.Context) (CompleteResult, error) {
	m.mu.Lock()
	if m.state != StateReady {
		m.mu.Unlock()
		return CompleteResult{}, ErrNotReady
	}
	if m.inFlight {
		m.mu.Unlock()
		return CompleteResult{}, ErrCompleteInFlight
	}
	m.inFlight = true
	prev := m.record.Clone()
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	res := CompleteResult{}
	res.Permission, res.NotificationID, res.SchedulingErr = m.scheduleDue(ctx)
	// A failed permission request is a scheduling failure, not a denial.
	if res.SchedulingErr == nil && res.Permission == notify.PermissionDenied && m.opts.PhysicalDevice {
		res.PermissionWarning = true
	}

	if prev.HasNotification() {
		if err := m.scheduler.Cancel(ctx, prev.CurrentNotificationID); err != nil {
			m.log.Warn("cancel previous notification failed", "notification_id", prev.CurrentNotificationID, "error", err)
		}
	}

	now := m.opts.Now()
	next := prev.Complete(now, res.NotificationID)
	payload, err := model.EncodeCountdownRecord(next)
	if err == nil {
		err = m.store.Set(ctx, m.opts.StorageKey, payload)
	}
	if err != nil {
		// The previous id was already cancelled; drop the new one too so
		// nothing is left outstanding for an unpersisted record.
		if res.NotificationID != "" {
			_ = m.scheduler.Cancel(ctx, res.NotificationID)
		}
		m.log.Error("persist countdown record failed", "error", err)
		return CompleteResult{}, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	m.mu.Lock()
	m.record = next
	m.savedAt = now
	m.target = model.TargetTime(next, m.opts.Interval, now)
	m.status = model.ComputeStatus(m.target, now)
	m.mu.Unlock()

	res.Record = next.Clone()
	m.log.Info("countdown completed", "completions", len(next.CompletedAt), "notification_id", res.NotificationID)
	return res, nil
}

func (m *Machine) scheduleDue(ctx context.Context) (notify.Permission, string, error) {
	perm, err := m.scheduler.RequestPermission(ctx)
	if err != nil {
		m.log.Warn("notification permission request failed", "error_kind", "scheduling_failure", "error", err)
		return notify.PermissionUnknown, "", fmt.Errorf("%w: %v", ErrSchedulingFailed, err)
	}
	if perm != notify.PermissionGranted {
		m.log.Info("notification permission denied", "error_kind", "permission_denied", "physical_device", m.opts.PhysicalDevice)
		return notify.PermissionDenied, "", nil
	}
	id, err := m.scheduler.Schedule(ctx, m.opts.Payload, m.opts.Interval)
	if err != nil {
		m.log.Warn("schedule notification failed", "error_kind", "scheduling_failure", "error", err)
		return perm, "", fmt.Errorf("%w: %v", ErrSchedulingFailed, err)
	}
	return perm, id, nil
}
