// Package resource provides a scoped arena for values that must outlive the
// code that created them.
//
// The optimizer allocates constant buffers while folding and hands them to a
// Collector owned by the caller. The Collector releases everything at once
// when the caller closes it.
package resource

import (
	"context"
	"sync"

	"github.com/vk/mfnet/internal/ctxlog"
)

type entry struct {
	name     string
	destruct func()
}

// Collector owns resources and runs their destructors on Close, in reverse
// order of registration. It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	entries []entry
	closed  bool
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add registers a destructor. A nil destructor only records the resource.
// Adding to a closed collector runs the destructor immediately.
func (c *Collector) Add(name string, destruct func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if destruct != nil {
			destruct()
		}
		return
	}
	c.entries = append(c.entries, entry{name: name, destruct: destruct})
	c.mu.Unlock()
}

// Construct moves v into the collector and returns a pointer to the owned
// copy. The value is zeroed when the collector closes.
func Construct[T any](c *Collector, name string, v T) *T {
	p := new(T)
	*p = v
	c.Add(name, func() {
		var zero T
		*p = zero
	})
	return p
}

// Len returns the number of live resources.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Names returns the names of the live resources in registration order.
func (c *Collector) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.name
	}
	return out
}

// Close runs all destructors, newest first. Calling Close again is a no-op.
func (c *Collector) Close() {
	c.CloseContext(context.Background())
}

// CloseContext is Close with a logger taken from ctx.
func (c *Collector) CloseContext(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	entries := c.entries
	c.entries = nil
	c.mu.Unlock()

	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].destruct != nil {
			entries[i].destruct()
		}
	}
	ctxlog.FromContext(ctx).Debug("Released resources.", "count", len(entries))
}
