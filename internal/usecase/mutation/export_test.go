package mutation

// Tracker returns the coordinator's in-flight set.
func (c *Coordinator) Tracker() *Tracker {
	return c.tracker
}

// InFlight reports whether k is currently busy.
func (t *Tracker) InFlight(k Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, held := t.busy[k]
	return held
}

// Len returns the number of busy entities.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.busy)
}
