// Package sync re-derives the workspace on a timer so new mail shows up
// without a manual refresh.
package sync

import (
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is used when no positive interval is configured.
const DefaultInterval = 120 * time.Second

// RefreshMsg is a tea.Msg sent each time the poller fires.
type RefreshMsg struct {
	At time.Time
}

// Poller emits RefreshMsg on a fixed interval or when triggered.
type Poller struct {
	interval  time.Duration
	now       func() time.Time
	resultCh  chan RefreshMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
	lastSync  time.Time
}

// New creates a stopped Poller.
func New(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		interval:  interval,
		now:       time.Now,
		resultCh:  make(chan RefreshMsg, 1),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Interval returns the polling interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start launches the polling goroutine and returns the command that
// waits for its first tick. Starting twice returns nil.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()
	return p.Wait()
}

// Stop halts the polling goroutine. Pending Wait commands return nil.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	close(p.stopCh)
	p.running = false
}

// Trigger fires an immediate refresh without waiting for the ticker.
func (p *Poller) Trigger() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// One is already queued.
	}
}

// LastSync returns when the poller last fired.
func (p *Poller) LastSync() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSync
}

func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fire()
		case <-p.triggerCh:
			p.fire()
		}
	}
}

func (p *Poller) fire() {
	at := p.now()
	p.mu.Lock()
	p.lastSync = at
	p.mu.Unlock()

	select {
	case p.resultCh <- RefreshMsg{At: at}:
	default:
		// The UI has not consumed the previous tick yet.
	}
}

// Wait returns a tea.Cmd that blocks until the next RefreshMsg. Call it
// again after handling each message to keep listening.
func (p *Poller) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-p.resultCh:
			return msg
		case <-p.stopCh:
			return nil
		}
	}
}
