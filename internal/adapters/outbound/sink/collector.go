package sink

import (
	"sync"

	"github.com/openkraft/autograder/internal/domain"
)

// Collector keeps every event in memory.
type Collector struct {
	mu     sync.Mutex
	events []domain.Event
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Publish(ev domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

// Events returns a copy of the events received so far.
func (c *Collector) Events() []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Event(nil), c.events...)
}

// Lines returns the progress lines in arrival order.
func (c *Collector) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var lines []string
	for _, ev := range c.events {
		if ev.Type == domain.EventProgress {
			lines = append(lines, ev.Line)
		}
	}
	return lines
}
