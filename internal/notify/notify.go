// Package notify carries non-fatal warnings from the generation pipeline to
// whoever is driving it.
package notify

import (
	"log/slog"
	"sync"
)

type Reporter interface {
	Warn(msg string, err error)
}

// Slog logs warnings through the default slog logger.
type Slog struct{}

func (Slog) Warn(msg string, err error) {
	if err != nil {
		slog.Warn(msg, "error", err)
		return
	}
	slog.Warn(msg)
}

// Func adapts a plain function to a Reporter.
type Func func(msg string, err error)

func (f Func) Warn(msg string, err error) { f(msg, err) }

type Warning struct {
	Message string
	Err     error
}

// Collector records warnings in order. Used by tests and by the
// non-interactive generate command to summarise a run.
type Collector struct {
	mu       sync.Mutex
	warnings []Warning
}

func (c *Collector) Warn(msg string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, Warning{Message: msg, Err: err})
}

func (c *Collector) Warnings() []Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Warning(nil), c.warnings...)
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.warnings)
}

// Multi fans a warning out to several reporters.
func Multi(reporters ...Reporter) Reporter {
	return Func(func(msg string, err error) {
		for _, r := range reporters {
			if r != nil {
				r.Warn(msg, err)
			}
		}
	})
}

// OrDefault returns r, or a Slog reporter when r is nil.
func OrDefault(r Reporter) Reporter {
	if r == nil {
		return Slog{}
	}
	return r
}
