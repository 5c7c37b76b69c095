// Package poller implements the optional auto-refresh of the statistics page.
//
// A Controller is either Idle or Polling. Start acquires a timer goroutine
// and returns its Handle; Stop releases it. Close releases whatever is held
// and must be called when the owning workspace goes away.
package poller

import (
	"context"
	"sync"
	"time"

	"linkdash/internal/notify"

	"go.uber.org/zap"
)

// MsgUpdated is raised after a successful background refresh.
const MsgUpdated = "Statistics updated"

// updatedAutoHide is how long MsgUpdated stays visible.
const updatedAutoHide = 2 * time.Second

// State of the controller.
type State string

const (
	// StateIdle means no timer is running.
	StateIdle State = "Idle"
	// StatePolling means a timer refreshes the collection on every tick.
	StatePolling State = "Polling"
)

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// Refresher is the collection being kept up to date.
type Refresher interface {
	Refresh(ctx context.Context, showLoading bool) error
}

// Handle is a running poll timer. It is released exactly once.
type Handle struct {
	stop    chan struct{}
	done    chan struct{}
	release sync.Once
}

func newHandle() *Handle {
	return &Handle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (h *Handle) cancel() {
	h.release.Do(func() { close(h.stop) })
}

func (h *Handle) stopped() bool {
	select {
	case <-h.stop:
		return true
	default:
		return false
	}
}

// Done is closed when the timer goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Controller is the polling controller.
type Controller struct {
	lastRefreshed time.Time
	view          Refresher
	notifier      notify.Notifier
	sugar         *zap.SugaredLogger
	active        *Handle
	now           func() time.Time
	interval      time.Duration
	timeout       time.Duration
	mu            sync.Mutex
}

// New creates an Idle controller refreshing view every interval once
// started. timeout bounds each background refresh; zero means none.
func New(view Refresher, n notify.Notifier, interval, timeout time.Duration, sugar *zap.SugaredLogger) *Controller {
	return &Controller{
		view:     view,
		notifier: n,
		interval: interval,
		timeout:  timeout,
		sugar:    sugar,
		now:      time.Now,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return StatePolling
	}
	return StateIdle
}

// LastRefreshed returns when the last refresh, manual or background, was issued.
// The zero time means never.
func (c *Controller) LastRefreshed() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefreshed
}

// Interval returns the poll interval.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Start switches to Polling and returns the running handle. When already
// polling the existing handle is returned and no second timer is started.
func (c *Controller) Start() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return c.active
	}

	h := newHandle()
	c.active = h
	go c.loop(h)

	c.sugar.Debugf("auto refresh started, interval %s", c.interval)
	return h
}

// Stop releases h. When h is the running handle the controller becomes Idle.
// Releasing a handle twice does nothing.
func (c *Controller) Stop(h *Handle) {
	if h == nil {
		return
	}

	c.mu.Lock()
	if c.active == h {
		c.active = nil
		c.sugar.Debugf("auto refresh stopped")
	}
	c.mu.Unlock()

	h.cancel()
}

// SetEnabled starts or stops polling.
func (c *Controller) SetEnabled(on bool) State {
	if on {
		c.Start()
		return StatePolling
	}

	c.mu.Lock()
	h := c.active
	c.mu.Unlock()
	c.Stop(h)
	return StateIdle
}

// Toggle flips the state and returns the new one.
func (c *Controller) Toggle() State {
	return c.SetEnabled(c.State() == StateIdle)
}

// Refresh is the manual refresh: it shows the loading indicator and works
// in either state without changing it.
func (c *Controller) Refresh(ctx context.Context) error {
	c.stamp()
	return c.view.Refresh(ctx, true)
}

// Close stops any running timer. It is safe to call more than once.
func (c *Controller) Close() {
	c.SetEnabled(false)
}

func (c *Controller) stamp() {
	c.mu.Lock()
	c.lastRefreshed = c.now()
	c.mu.Unlock()
}

func (c *Controller) isActive(h *Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active == h
}

func (c *Controller) loop(h *Handle) {
	defer close(h.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			// select picks randomly between ready cases
			if h.stopped() {
				return
			}
			c.tick(h)
		}
	}
}

func (c *Controller) tick(h *Handle) {
	c.stamp()

	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.view.Refresh(ctx, false); err != nil {
		return
	}

	if c.isActive(h) {
		n := notify.Info(MsgUpdated)
		n.AutoHide = updatedAutoHide
		c.notifier.Notify(n)
	}
}
