// Package slider holds the state of the before/after comparison divider.
package slider

import "unmark/internal/core/domain"

const DefaultPercent = 50.0

type state int

const (
	idle state = iota
	dragging
)

// Slider tracks the reveal percent of the "after" layer. The divider position and the width of the
// after layer are both derived from Percent, so they cannot disagree.
type Slider struct {
	percent float64
	left    float64
	width   float64

	state   state
	pointer int
}

func New() *Slider {
	return &Slider{percent: DefaultPercent}
}

// SetContainer records the container's left edge and width in host coordinates.
func (s *Slider) SetContainer(left, width float64) {
	s.left = left
	s.width = width
}

// PointerDown captures the pointer and moves the divider to it right away, so a plain click works too.
func (s *Slider) PointerDown(ev domain.PointerEvent) {
	if !ev.Primary || s.state == dragging {
		return
	}

	s.state = dragging
	s.pointer = ev.ID
	s.update(ev.X)
}

func (s *Slider) PointerMove(ev domain.PointerEvent) {
	if s.state != dragging || ev.ID != s.pointer {
		return
	}

	s.update(ev.X)
}

func (s *Slider) PointerUp(ev domain.PointerEvent) {
	if s.state != dragging || ev.ID != s.pointer {
		return
	}

	s.state = idle
}

func (s *Slider) Dragging() bool {
	return s.state == dragging
}

func (s *Slider) Percent() float64 {
	return s.percent
}

// DividerX is the divider's offset from the container's left edge.
func (s *Slider) DividerX() float64 {
	return s.width * s.percent / 100
}

// AfterWidth is the visible width of the after layer.
func (s *Slider) AfterWidth() float64 {
	return s.DividerX()
}

func (s *Slider) update(x float64) {
	if s.width <= 0 {
		return
	}

	pos := max(0, min(x-s.left, s.width))
	s.percent = pos / s.width * 100
}
