// Package cursor owns the system-wide pointer shape override shown while
// scrolling.
package cursor

import (
	"log"
	"sync"

	"autoscroll/internal/scrollmath"
)

// Shape is a pointer override. None means the user's own cursors are active.
type Shape int

const (
	None Shape = iota
	All        // active, no direction yet
	NS
	WE
	NWSE
	NESW
)

func (s Shape) String() string {
	switch s {
	case All:
		return "all"
	case NS:
		return "ns"
	case WE:
		return "we"
	case NWSE:
		return "nwse"
	case NESW:
		return "nesw"
	default:
		return "none"
	}
}

// ShapeFor maps a motion direction to the cursor that shows it
func ShapeFor(d scrollmath.Direction) Shape {
	switch d {
	case scrollmath.DirHorizontal:
		return WE
	case scrollmath.DirVertical:
		return NS
	case scrollmath.DirDiagonalDown:
		return NWSE
	case scrollmath.DirDiagonalUp:
		return NESW
	default:
		return All
	}
}

// Backend performs the actual override. Apply replaces the normal arrow with
// s; Restore reloads the user's cursor scheme.
type Backend interface {
	Apply(s Shape) error
	Restore() error
}

// Controller serializes every change to the override. It is the only caller
// of its Backend.
type Controller struct {
	mu      sync.Mutex
	backend Backend
	current Shape
	warned  map[Shape]bool
}

// NewController creates a controller with no override active
func NewController(b Backend) *Controller {
	return &Controller{backend: b, warned: make(map[Shape]bool)}
}

// SetShape applies s unless it is already applied. A backend failure is
// logged once per shape and otherwise ignored; the shape still counts as
// current so the failing call is not retried every cycle.
func (c *Controller) SetShape(s Shape) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s == c.current {
		return
	}
	if s == None {
		c.restoreLocked()
		return
	}
	if err := c.backend.Apply(s); err != nil && !c.warned[s] {
		c.warned[s] = true
		log.Printf("Cursor: failed to apply %s cursor: %v", s, err)
	}
	c.current = s
}

// Restore removes the override. It is a no-op when none is active.
func (c *Controller) Restore() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked()
}

// Current returns the shape most recently applied
func (c *Controller) Current() Shape {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) restoreLocked() {
	if c.current == None {
		return
	}
	if err := c.backend.Restore(); err != nil {
		log.Printf("Cursor: failed to restore system cursors: %v", err)
	}
	c.current = None
}
