package cuesheet

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Persister writes the full cue list of the active project, replacing whatever was stored.
type Persister interface {
	SaveCues(ctx context.Context, cues []Cue) error
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc func(ctx context.Context, cues []Cue) error

func (f PersisterFunc) SaveCues(ctx context.Context, cues []Cue) error {
	return f(ctx, cues)
}

// Store owns the authoritative cue list for one project. It is not safe for
// concurrent use; a single event loop is expected to drive it.
type Store struct {
	cues      []Cue
	settings  Settings
	persister Persister
	newID     func() string

	selected  string   // primary selection, "" when nothing is selected
	selection []string // multi-selection in click order
	dirty     bool     // in-memory changes not yet written
}

// NewStore creates a store seeded with the project's cues. A nil persister keeps
// everything in memory.
func NewStore(cues []Cue, settings Settings, persister Persister) *Store {
	return &Store{
		cues:      slices.Clone(cues),
		settings:  settings,
		persister: persister,
		newID:     uuid.NewString,
	}
}

// Settings returns the settings the store was created with.
func (s *Store) Settings() Settings {
	return s.settings
}

// Cues returns a copy of the cue list in insertion order.
func (s *Store) Cues() []Cue {
	return slices.Clone(s.cues)
}

// Len returns the number of cues.
func (s *Store) Len() int {
	return len(s.cues)
}

// Get looks a cue up by identifier.
func (s *Store) Get(id string) (Cue, bool) {
	i := s.index(id)
	if i < 0 {
		return Cue{}, false
	}
	return s.cues[i], true
}

// Dirty reports whether there are changes that have not been persisted.
func (s *Store) Dirty() bool {
	return s.dirty
}

// NextNumber returns the number the next added cue will receive.
func (s *Store) NextNumber() int {
	if !s.settings.AutoNumberCues {
		return len(s.cues) + 1
	}
	highest := 0
	for _, c := range s.cues {
		highest = max(highest, c.Number)
	}
	return highest + 1
}

// Add assigns an identifier and number to the draft and appends it.
func (s *Store) Add(ctx context.Context, d Draft) (Cue, error) {
	if d.Page < 1 {
		return Cue{}, fmt.Errorf("%w: page %d", ErrInvalidValue, d.Page)
	}
	if d.Type == "" {
		d.Type = s.settings.DefaultCueType
	}
	if _, err := ParseCueType(string(d.Type)); err != nil {
		return Cue{}, err
	}
	if err := checkGeometry(d.Position, d.LineLength); err != nil {
		return Cue{}, err
	}
	if d.Color == "" {
		d.Color = s.settings.DefaultCueColor
	}

	c := Cue{
		ID:         s.newID(),
		Number:     s.NextNumber(),
		Page:       d.Page,
		Position:   d.Position.Clamp(),
		Label:      d.Label,
		Time:       d.Time,
		Notes:      d.Notes,
		Color:      d.Color,
		Type:       d.Type,
		LineLength: clampLine(d.LineLength),
	}
	s.cues = append(s.cues, c)
	log.Debug("Added cue", "id", c.ID, "number", c.Number, "page", c.Page)

	if s.settings.AutoSave {
		return c, s.persist(ctx)
	}
	s.dirty = true
	return c, nil
}

// Update replaces the cue with the same identifier and persists the list.
func (s *Store) Update(ctx context.Context, c Cue) error {
	if err := s.replace(c); err != nil {
		return err
	}
	return s.persist(ctx)
}

type deleteOptions struct {
	skipPersist bool
}

// DeleteOption tweaks a single Delete call.
type DeleteOption func(*deleteOptions)

// WithoutPersist leaves the deletion in memory only; a later Flush writes it.
func WithoutPersist() DeleteOption {
	return func(o *deleteOptions) { o.skipPersist = true }
}

// Delete removes a cue. Deleting an unknown identifier is a no-op and reports false.
func (s *Store) Delete(ctx context.Context, id string, opts ...DeleteOption) (bool, error) {
	var o deleteOptions
	for _, opt := range opts {
		opt(&o)
	}

	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	s.cues = slices.Delete(s.cues, i, i+1)
	s.unselect(id)
	log.Debug("Deleted cue", "id", id)

	if o.skipPersist || !s.settings.AutoSave {
		s.dirty = true
		return true, nil
	}
	return true, s.persist(ctx)
}

// BulkDelete removes every cue whose identifier is in ids and returns how many went.
func (s *Store) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	before := len(s.cues)
	s.cues = slices.DeleteFunc(s.cues, func(c Cue) bool { return drop[c.ID] })
	for id := range drop {
		s.unselect(id)
	}
	removed := before - len(s.cues)
	if removed == 0 {
		return 0, nil
	}
	log.Debug("Deleted cues", "count", removed)

	if !s.settings.AutoSave {
		s.dirty = true
		return removed, nil
	}
	return removed, s.persist(ctx)
}

// Stage replaces a cue in memory without persisting. Gestures use it for every
// intermediate pointer position and Flush once the gesture ends.
func (s *Store) Stage(c Cue) error {
	if err := s.replace(c); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Flush persists the list if anything changed since the last write.
func (s *Store) Flush(ctx context.Context) error {
	if !s.dirty {
		return nil
	}
	return s.persist(ctx)
}

// Reload swaps in a cue list written elsewhere. Nothing is persisted, and the
// selection keeps only cues that still exist.
func (s *Store) Reload(cues []Cue) {
	s.cues = slices.Clone(cues)
	if s.selected != "" && s.index(s.selected) < 0 {
		s.selected = ""
	}
	s.selection = slices.DeleteFunc(s.selection, func(id string) bool { return s.index(id) < 0 })
	s.dirty = false
}

// Select marks a cue as selected. With additive set (shift-click) membership is
// toggled instead of replacing the selection.
func (s *Store) Select(id string, additive bool) error {
	if s.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrCueNotFound, id)
	}
	if !additive {
		s.selected = id
		s.selection = []string{id}
		return nil
	}
	if slices.Contains(s.selection, id) {
		wasOnly := len(s.selection) == 1
		s.selection = slices.DeleteFunc(s.selection, func(v string) bool { return v == id })
		if wasOnly {
			s.selected = ""
		}
		return nil
	}
	s.selection = append(s.selection, id)
	s.selected = id
	return nil
}

// Selected returns the primary selected cue.
func (s *Store) Selected() (Cue, bool) {
	if s.selected == "" {
		return Cue{}, false
	}
	return s.Get(s.selected)
}

// SelectedIDs returns the multi-selection in click order.
func (s *Store) SelectedIDs() []string {
	return slices.Clone(s.selection)
}

// ClearSelection drops both the primary and the multi-selection.
func (s *Store) ClearSelection() {
	s.selected = ""
	s.selection = nil
}

func (s *Store) replace(c Cue) error {
	i := s.index(c.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCueNotFound, c.ID)
	}
	if err := checkGeometry(c.Position, c.LineLength); err != nil {
		return err
	}
	c.Position = c.Position.Clamp()
	c.LineLength = clampLine(c.LineLength)
	s.cues[i] = c
	return nil
}

func (s *Store) unselect(id string) {
	if s.selected == id {
		s.selected = ""
	}
	s.selection = slices.DeleteFunc(s.selection, func(v string) bool { return v == id })
}

func (s *Store) persist(ctx context.Context) error {
	if s.persister == nil {
		s.dirty = false
		return nil
	}
	if err := s.persister.SaveCues(ctx, s.Cues()); err != nil {
		s.dirty = true
		return fmt.Errorf("failed to persist cues: %w", err)
	}
	s.dirty = false
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.cues, func(c Cue) bool { return c.ID == id })
}

func checkGeometry(p Position, lineLength *float64) error {
	if !p.finite() {
		return fmt.Errorf("%w: position %v,%v", ErrInvalidValue, p.X, p.Y)
	}
	if lineLength != nil && (math.IsNaN(*lineLength) || math.IsInf(*lineLength, 0)) {
		return fmt.Errorf("%w: line length %v", ErrInvalidValue, *lineLength)
	}
	return nil
}

func clampLine(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return floatPtr(clamp(*v, MinLineLength, MaxLineLength))
}
