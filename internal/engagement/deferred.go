package engagement

import (
	"sync"
	"time"
)

// deferred is a single-slot delayed task. Scheduling replaces whatever was
// pending, so at most one callback is ever waiting to fire.
type deferred struct {
	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	closed  bool
	running sync.WaitGroup
}

// schedule arms fn to run after d, cancelling any pending callback.
// It reports false once the cell is closed.
func (c *deferred) schedule(d time.Duration, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		// A timer can fire while schedule or cancel is stopping it.
		if c.closed || c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.timer = nil
		c.running.Add(1)
		c.mu.Unlock()

		defer c.running.Done()
		fn()
	})
	return true
}

// cancel drops the pending callback and reports whether one was pending.
func (c *deferred) cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelLocked()
}

func (c *deferred) cancelLocked() bool {
	if c.timer == nil {
		return false
	}
	c.timer.Stop()
	c.timer = nil
	c.gen++
	return true
}

// pending reports whether a callback is waiting to fire.
func (c *deferred) pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// close cancels the pending callback, refuses new ones and waits for a
// callback that already started.
func (c *deferred) close() {
	c.mu.Lock()
	c.closed = true
	c.cancelLocked()
	c.mu.Unlock()
	c.running.Wait()
}
