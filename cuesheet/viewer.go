package cuesheet

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Zoom bounds for the page view.
const (
	DefaultScale = 1.5
	MinScale     = 0.5
	MaxScale     = 3.0
	ScaleStep    = 0.25
	// ThumbnailScale is the scale page thumbnails are rendered at.
	ThumbnailScale = 0.2
)

// Document is the rendered PDF as the annotation view needs it. Decoding and
// rasterising live outside this module.
type Document interface {
	PageCount() int
}

// Pager tracks the displayed page and zoom level.
type Pager struct {
	page  int
	total int
	scale float64
}

// NewPager starts on page 1 of a document with total pages.
func NewPager(total int, scale float64) *Pager {
	if scale < MinScale || scale > MaxScale {
		scale = DefaultScale
	}
	return &Pager{page: 1, total: max(total, 1), scale: scale}
}

// Page returns the displayed page, 1-indexed.
func (p *Pager) Page() int { return p.page }

// Total returns the page count.
func (p *Pager) Total() int { return p.total }

// Scale returns the zoom factor.
func (p *Pager) Scale() float64 { return p.scale }

// Go jumps to page n, clamped to the document. It reports whether the page changed.
func (p *Pager) Go(n int) bool {
	n = min(max(n, 1), p.total)
	if n == p.page {
		return false
	}
	p.page = n
	return true
}

// Next moves forward one page, stopping at the last.
func (p *Pager) Next() bool { return p.Go(p.page + 1) }

// Prev moves back one page, stopping at the first.
func (p *Pager) Prev() bool { return p.Go(p.page - 1) }

// ZoomIn increases the scale by one step.
func (p *Pager) ZoomIn() float64 {
	p.scale = min(p.scale+ScaleStep, MaxScale)
	return p.scale
}

// ZoomOut decreases the scale by one step.
func (p *Pager) ZoomOut() float64 {
	p.scale = max(p.scale-ScaleStep, MinScale)
	return p.scale
}

// RenderGuard hands out render tickets so that a slow render of a page the user
// has already left cannot overwrite the render of the page they are on now.
type RenderGuard struct {
	gen atomic.Uint64
}

// RenderTicket identifies one render request.
type RenderTicket struct {
	guard *RenderGuard
	gen   uint64
	Page  int
}

// Begin starts a render of page and invalidates every earlier ticket.
func (g *RenderGuard) Begin(page int) RenderTicket {
	return RenderTicket{guard: g, gen: g.gen.Add(1), Page: page}
}

// Current reports whether no newer render has begun since this ticket was issued.
func (t RenderTicket) Current() bool {
	return t.guard != nil && t.guard.gen.Load() == t.gen
}

// PageCueCounts returns how many cues sit on each page.
func PageCueCounts(cues []Cue) map[int]int {
	counts := make(map[int]int)
	for _, c := range cues {
		counts[c.Page]++
	}
	return counts
}

// CuesOnPage returns the cues placed on page, in store order.
func CuesOnPage(cues []Cue, page int) []Cue {
	var out []Cue
	for _, c := range cues {
		if c.Page == page {
			out = append(out, c)
		}
	}
	return out
}

// Annotator is the annotation view: a store, the page being shown and the
// keyboard surface that acts on both.
type Annotator struct {
	Store  *Store
	Pager  *Pager
	Render RenderGuard
}

// NewAnnotator opens the annotation view on page 1.
func NewAnnotator(store *Store, doc Document) *Annotator {
	total := 1
	if doc != nil {
		total = doc.PageCount()
	}
	return &Annotator{
		Store: store,
		Pager: NewPager(total, store.Settings().Scale),
	}
}

// ClickAdd places a new cue where the page canvas was clicked, using the default
// type and colour. The new cue becomes the selection.
func (a *Annotator) ClickAdd(ctx context.Context, pointer Point, canvas Rect) (Cue, error) {
	if canvas.empty() {
		return Cue{}, ErrEmptyContainer
	}
	c, err := a.Store.Add(ctx, Draft{
		Page:     a.Pager.Page(),
		Position: ClickPosition(pointer, canvas),
	})
	if err != nil {
		return c, err
	}
	if err := a.Store.Select(c.ID, false); err != nil {
		return c, err
	}
	return c, nil
}

// HandleKey applies a global key press: Left/Right change page and Delete removes
// every selected cue.
func (a *Annotator) HandleKey(ctx context.Context, k Key) error {
	switch k {
	case KeyLeft:
		if a.Pager.Prev() {
			a.Render.Begin(a.Pager.Page())
		}
	case KeyRight:
		if a.Pager.Next() {
			a.Render.Begin(a.Pager.Page())
		}
	case KeyDelete:
		ids := a.Store.SelectedIDs()
		if len(ids) == 0 {
			return nil
		}
		n, err := a.Store.BulkDelete(ctx, ids)
		if err != nil {
			return err
		}
		a.Store.ClearSelection()
		log.Info("Deleted selected cues", "count", n)
	}
	return nil
}

// PageCues returns the cues on the displayed page.
func (a *Annotator) PageCues() []Cue {
	return CuesOnPage(a.Store.Cues(), a.Pager.Page())
}
