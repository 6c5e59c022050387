package cuesheet

import (
	"errors"
	"math"
)

// ErrEmptyContainer is returned when a gesture starts over a container with no area.
var ErrEmptyContainer = errors.New("container has zero width or height")

// Point is a pointer coordinate in container pixels.
type Point struct {
	X float64
	Y float64
}

// Rect is a container's bounding box in pixels.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (r Rect) empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Snap describes the vertical guide that pulls a dragged cue into alignment.
type Snap struct {
	Distance  float64 // pixels from the right edge
	Threshold float64 // percent of container width
}

// DefaultSnap matches the stock layout: a guide 120px from the right edge with a 3% pull.
var DefaultSnap = Snap{Distance: 120, Threshold: 3}

// SnapLine returns the guide's horizontal position as a percentage of the container width.
func SnapLine(box Rect, distance float64) float64 {
	return (box.Width - distance) / box.Width * 100
}

// DragAnchor returns the offset between the pointer and the cue's rendered position
// at the start of a drag, so the marker does not jump under the pointer.
func DragAnchor(pointer Point, box Rect, pos Position) Point {
	return Point{
		X: pointer.X - (box.Left + box.Width*(pos.X/100)),
		Y: pointer.Y - (box.Top + box.Height*(pos.Y/100)),
	}
}

// DragPosition converts a pointer location into a normalized cue position.
// Only x snaps; both axes are clamped after snapping.
func DragPosition(pointer, anchor Point, box Rect, snap Snap) Position {
	x := (pointer.X - box.Left - anchor.X) / box.Width * 100
	y := (pointer.Y - box.Top - anchor.Y) / box.Height * 100

	line := SnapLine(box, snap.Distance)
	if math.Abs(x-line) < snap.Threshold {
		x = line
	}
	return Position{X: x, Y: y}.Clamp()
}

// ClickPosition converts a click on the page canvas into a cue position.
func ClickPosition(pointer Point, box Rect) Position {
	return Position{
		X: (pointer.X - box.Left) / box.Width * 100,
		Y: (pointer.Y - box.Top) / box.Height * 100,
	}.Clamp()
}

// ResizeLine computes a connector length from the horizontal pointer travel.
// Moving left lengthens the line.
func ResizeLine(startX, pointerX, startLength float64) float64 {
	return clamp(startLength+(startX-pointerX), MinLineLength, MaxLineLength)
}
