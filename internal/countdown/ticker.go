package countdown

import (
	"sync"
	"time"

	"github.com/sandeepkv93/tickd/internal/model"
)

// Ticker is the periodic tick resource for one Machine. It is acquired with
// Start when the countdown screen mounts and released with Stop when it
// unmounts; it can be started again afterwards.
type Ticker struct {
	machine *Machine
	period  time.Duration

	mu      sync.Mutex
	out     chan model.CountdownStatus
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

func NewTicker(machine *Machine, period time.Duration) *Ticker {
	if period <= 0 {
		period = time.Second
	}
	return &Ticker{machine: machine, period: period}
}

// C returns the channel for the current run. It is closed by Stop.
func (t *Ticker) C() <-chan model.CountdownStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.out
}

func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Start begins ticking and returns the status channel. Starting a running
// ticker returns the existing channel.
func (t *Ticker) Start() <-chan model.CountdownStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return t.out
	}
	t.running = true
	t.out = make(chan model.CountdownStatus, 1)
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	go t.loop(time.NewTicker(t.period), t.out, t.stopCh, t.doneCh)
	return t.out
}

func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopCh)
	done := t.doneCh
	t.mu.Unlock()
	<-done
}

func (t *Ticker) loop(tk *time.Ticker, out chan model.CountdownStatus, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(out)
	defer tk.Stop()

	for {
		select {
		case now := <-tk.C:
			status := t.machine.Tick(now)
			publishLatest(out, status)
		case <-stop:
			return
		}
	}
}

// publishLatest keeps at most one pending status, replacing a stale one.
func publishLatest(out chan model.CountdownStatus, status model.CountdownStatus) {
	select {
	case out <- status:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- status:
	default:
	}
}
