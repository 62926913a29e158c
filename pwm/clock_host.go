//go:build !tinygo

package pwm

import (
	"sync"
	"time"

	"pwmbox/core"
)

// SoftClock ticks an engine from a goroutine for host builds. Each tick is
// delivered with the core critical section held, the way a hardware timer
// interrupt runs with interrupts disabled.
type SoftClock struct {
	engine *Engine
	period time.Duration
	batch  int

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
	onTick  func()
}

// NewSoftClock delivers batch ticks every period
func NewSoftClock(engine *Engine, period time.Duration, batch int) *SoftClock {
	if batch < 1 {
		batch = 1
	}
	return &SoftClock{engine: engine, period: period, batch: batch}
}

// OnTick registers a hook run after each batch, outside the critical section
func (c *SoftClock) OnTick(fn func()) {
	c.mu.Lock()
	c.onTick = fn
	c.mu.Unlock()
}

// Start begins tick delivery
func (c *SoftClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.quit = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(c.quit, c.done, c.onTick)
}

// Stop halts tick delivery and waits for the ticker goroutine to exit
func (c *SoftClock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.quit)
	done := c.done
	c.mu.Unlock()
	<-done
}

// Running reports whether ticks are being delivered
func (c *SoftClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *SoftClock) run(quit <-chan struct{}, done chan<- struct{}, hook func()) {
	defer close(done)
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			state := core.DisableInterrupts()
			for i := 0; i < c.batch; i++ {
				c.engine.Tick()
			}
			core.RestoreInterrupts(state)
			if hook != nil {
				hook()
			}
		}
	}
}
