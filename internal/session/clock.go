package session

// Clock counts whole seconds while the session is live. Ticks are delivered
// by the controller loop; Stop freezes the value and returns it.
type Clock struct {
	elapsed int
	running bool
}

// Start begins counting ticks.
func (c *Clock) Start() {
	c.running = true
}

// Tick advances the clock by one second when running.
func (c *Clock) Tick() {
	if c.running {
		c.elapsed++
	}
}

// Stop halts the clock and returns the captured value.
func (c *Clock) Stop() int {
	c.running = false
	return c.elapsed
}

// Elapsed returns the current value.
func (c *Clock) Elapsed() int {
	return c.elapsed
}

// Running reports whether ticks are being counted.
func (c *Clock) Running() bool {
	return c.running
}
