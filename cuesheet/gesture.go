package cuesheet

import (
	"context"
	"fmt"
)

type gestureKind int

const (
	gestureDrag gestureKind = iota
	gestureResize
)

// Gesture is an in-progress drag or connector resize on a single cue. Intermediate
// values are staged in the store; the list is persisted once, when the gesture ends.
type Gesture struct {
	store  *Store
	kind   gestureKind
	cueID  string
	box    Rect
	snap   Snap
	anchor Point   // drag: pointer offset from the marker
	startX float64 // resize: pointer x relative to the container at mouse-down
	length float64 // resize: connector length at mouse-down
	ended  bool
}

// BeginDrag starts moving a cue. The cue becomes the primary selection.
func (s *Store) BeginDrag(id string, pointer Point, box Rect) (*Gesture, error) {
	c, err := s.gestureTarget(id, box)
	if err != nil {
		return nil, err
	}
	s.selected = id
	return &Gesture{
		store:  s,
		kind:   gestureDrag,
		cueID:  id,
		box:    box,
		snap:   s.settings.Snap(),
		anchor: DragAnchor(pointer, box, c.Position),
	}, nil
}

// BeginResize starts changing a cue's connector length.
func (s *Store) BeginResize(id string, pointer Point, box Rect) (*Gesture, error) {
	c, err := s.gestureTarget(id, box)
	if err != nil {
		return nil, err
	}
	s.selected = id
	return &Gesture{
		store:  s,
		kind:   gestureResize,
		cueID:  id,
		box:    box,
		startX: pointer.X - box.Left,
		length: c.EffectiveLineLength(),
	}, nil
}

func (s *Store) gestureTarget(id string, box Rect) (Cue, error) {
	if box.empty() {
		return Cue{}, ErrEmptyContainer
	}
	c, ok := s.Get(id)
	if !ok {
		return Cue{}, fmt.Errorf("%w: %s", ErrCueNotFound, id)
	}
	return c, nil
}

// Move applies a pointer move and returns the updated cue.
func (g *Gesture) Move(pointer Point) (Cue, error) {
	c, ok := g.store.Get(g.cueID)
	if !ok {
		return Cue{}, fmt.Errorf("%w: %s", ErrCueNotFound, g.cueID)
	}
	if g.ended {
		return c, nil
	}

	switch g.kind {
	case gestureDrag:
		c.Position = DragPosition(pointer, g.anchor, g.box, g.snap)
	case gestureResize:
		c.LineLength = floatPtr(ResizeLine(g.startX, pointer.X-g.box.Left, g.length))
	}
	if err := g.store.Stage(c); err != nil {
		return Cue{}, err
	}
	return c, nil
}

// End finishes the gesture. Pointer-up and pointer-leave both land here; the last
// computed value stands. Calling End more than once is harmless.
func (g *Gesture) End(ctx context.Context) error {
	if g.ended {
		return nil
	}
	g.ended = true
	if !g.store.settings.AutoSave {
		return nil
	}
	return g.store.Flush(ctx)
}
