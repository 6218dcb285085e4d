// Package gesture implements the drag-to-progress control from the intro
// screen: vertical pointer travel is converted into a 0–100 charge value,
// with haptic feedback past 60 and a completion callback at 100.
package gesture

import (
	"math"

	"github.com/marcossootooo-ctrl/trainuppp/internal/haptics"
)

// MaxDragDistance is the pointer travel (in screen units) that maps to the
// full 0–100 range.
const MaxDragDistance = 400.0

// Controller tracks one drag interaction at a time. It is not safe for
// concurrent use; the owning session serializes access.
type Controller struct {
	progress float64
	dragging bool

	startY        float64
	startProgress float64

	haptics    haptics.Driver
	onComplete func()
}

// New creates a controller. onComplete fires once each time the drag reaches
// 100; it may transition screens, so it runs after the controller has already
// reset itself.
func New(driver haptics.Driver, onComplete func()) *Controller {
	if driver == nil {
		driver = haptics.Nop{}
	}
	return &Controller{haptics: driver, onComplete: onComplete}
}

// Begin captures the drag origin. Beginning while a drag is active simply
// re-anchors the origin at the current progress.
func (c *Controller) Begin(pointerY float64) {
	c.dragging = true
	c.startY = pointerY
	c.startProgress = c.progress
}

// Move recomputes progress from the pointer position. It is a no-op when no
// drag is active, which is what guarantees that stray move events after End
// never leak into the progress value.
func (c *Controller) Move(pointerY float64) {
	if !c.dragging {
		return
	}

	diff := c.startY - pointerY
	p := c.startProgress + diff/MaxDragDistance*100
	p = math.Min(math.Max(p, 0), 100)

	if p >= 100 {
		// Completion: the drag ends, progress snaps back, and the
		// caller-provided transition fires exactly once.
		c.dragging = false
		c.progress = 0
		c.haptics.Pattern(15, 40, 15)
		if c.onComplete != nil {
			c.onComplete()
		}
		return
	}

	c.progress = p
	if p > 60 {
		c.haptics.Pulse(int(math.Floor((p-60)/10)) * 5)
	}
}

// End releases the drag. An incomplete lift falls back to zero.
func (c *Controller) End() {
	if !c.dragging {
		return
	}
	c.dragging = false
	if c.progress < 100 {
		c.progress = 0
	}
}

// Progress returns the current charge value in [0,100].
func (c *Controller) Progress() float64 { return c.progress }

// Dragging reports whether a drag is active.
func (c *Controller) Dragging() bool { return c.dragging }
