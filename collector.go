package formval

import (
	"fmt"
	"maps"
	"sync"
)

// Result is the last reported outcome of one field.
type Result struct {
	ID      string
	Passed  bool
	Message string
}

// Collector is a Reporter that records the outcome of every field, keyed
// by the string form of its id. Reporting the same id again replaces the
// earlier result.
//
// It is safe for concurrent use.
type Collector struct {
	mu      sync.Mutex
	results map[string]Result
	order   []string
}

var _ Reporter = (*Collector)(nil)

func NewCollector() *Collector {
	return &Collector{results: make(map[string]Result)}
}

func (c *Collector) Success(id any) error {
	c.record(Result{ID: fmt.Sprint(id), Passed: true})
	return nil
}

func (c *Collector) Failure(id any, message string) error {
	c.record(Result{ID: fmt.Sprint(id), Message: message})
	return nil
}

func (c *Collector) record(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.results == nil {
		c.results = make(map[string]Result)
	}
	if _, seen := c.results[result.ID]; !seen {
		c.order = append(c.order, result.ID)
	}
	c.results[result.ID] = result
}

// Results returns every recorded result in the order ids were first
// reported.
func (c *Collector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]Result, 0, len(c.order))
	for _, id := range c.order {
		results = append(results, c.results[id])
	}
	return results
}

// Failures maps the id of every failed field to its message.
func (c *Collector) Failures() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	failures := make(map[string]string)
	for id, result := range c.results {
		if !result.Passed {
			failures[id] = result.Message
		}
	}
	return failures
}

// Passed reports whether no failure has been recorded.
func (c *Collector) Passed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, result := range c.results {
		if !result.Passed {
			return false
		}
	}
	return true
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.results)
	c.order = nil
}

// Snapshot returns a copy of the recorded results keyed by id.
func (c *Collector) Snapshot() map[string]Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.results)
}
