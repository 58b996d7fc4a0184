package countdown

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/tickd/internal/notify"
)

type fakeKV struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
	sets   int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	f.data[key] = value
	return nil
}

type fakeScheduler struct {
	mu          sync.Mutex
	permission  notify.Permission
	permErr     error
	scheduleErr error
	seq         int
	outstanding map[string]bool
	cancelled   []string
	delays      []time.Duration
	// gate, when set, blocks Schedule until it is closed.
	gate    chan struct{}
	entered chan struct{}
}

func newFakeScheduler(perm notify.Permission) *fakeScheduler {
	return &fakeScheduler{permission: perm, outstanding: make(map[string]bool)}
}

func (f *fakeScheduler) RequestPermission(context.Context) (notify.Permission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.permission, f.permErr
}

func (f *fakeScheduler) Schedule(_ context.Context, _ notify.Payload, delay time.Duration) (string, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scheduleErr != nil {
		return "", f.scheduleErr
	}
	f.seq++
	id := fmt.Sprintf("n%d", f.seq)
	f.outstanding[id] = true
	f.delays = append(f.delays, delay)
	return id, nil
}

func (f *fakeScheduler) Cancel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.outstanding, id)
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeScheduler) outstandingIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.outstanding))
	for id := range f.outstanding {
		out = append(out, id)
	}
	return out
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
