package counter

import "sync/atomic"

// Counter is a concurrency-safe counter shared between worker goroutines
// and the progress views that render it.
type Counter struct {
	total atomic.Int64
}

func NewCounter() *Counter {
	return &Counter{}
}

// Add increments the counter by value.
func (c *Counter) Add(value int) {
	c.total.Add(int64(value))
}

// Count returns the current total.
func (c *Counter) Count() int {
	return int(c.total.Load())
}
