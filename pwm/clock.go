package pwm

// Clock is the source of engine ticks. Stop must guarantee that no tick
// starts after it returns until Start is called again.
type Clock interface {
	Start()
	Stop()
	Running() bool
}

// ManualClock records Start/Stop calls and ticks only when Step is called.
// Tests use it to drive the engine deterministically.
type ManualClock struct {
	Engine  *Engine
	running bool
	Starts  int
	Stops   int
}

// Start marks the clock running
func (c *ManualClock) Start() {
	c.running = true
	c.Starts++
}

// Stop marks the clock stopped
func (c *ManualClock) Stop() {
	c.running = false
	c.Stops++
}

// Running reports whether the clock is started
func (c *ManualClock) Running() bool {
	return c.running
}

// Step ticks the engine n times if the clock is running
func (c *ManualClock) Step(n int) {
	if !c.running || c.Engine == nil {
		return
	}
	for i := 0; i < n; i++ {
		c.Engine.Tick()
	}
}
