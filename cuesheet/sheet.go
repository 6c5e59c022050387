package cuesheet

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// ColumnKind selects the editor a column uses.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindSelect
	KindColor
)

// Column is one spreadsheet column.
type Column struct {
	Key   Field
	Label string
	Kind  ColumnKind
}

// DefaultColumns is the stock sheet layout, also used for CSV export.
var DefaultColumns = []Column{
	{Key: FieldType, Label: "Type", Kind: KindSelect},
	{Key: FieldNumber, Label: "Number", Kind: KindNumber},
	{Key: FieldPage, Label: "Page", Kind: KindNumber},
	{Key: FieldLabel, Label: "Label", Kind: KindText},
	{Key: FieldTime, Label: "Time", Kind: KindText},
	{Key: FieldColor, Label: "Color", Kind: KindColor},
}

// Key is a key press the sheet and the annotation view react to.
type Key int

const (
	KeyEnter Key = iota
	KeyEscape
	KeyTab
	KeyShiftTab
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyDelete
)

// Cell identifies the cell being edited. Row and Col index the sorted view.
type Cell struct {
	CueID string
	Field Field
	Row   int
	Col   int
}

// Sheet is the spreadsheet view over a store: a sorted projection of the cues plus
// a single-cell edit session. It is Idle when no cell is being edited.
type Sheet struct {
	store   *Store
	columns []Column
	sort    *SortConfig
	editing *Cell
	buffer  string
}

// NewSheet builds a sheet over store. Nil or empty columns use DefaultColumns.
func NewSheet(store *Store, columns []Column) *Sheet {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	return &Sheet{store: store, columns: slices.Clone(columns)}
}

// Columns returns the column layout.
func (s *Sheet) Columns() []Column {
	return slices.Clone(s.columns)
}

// Rows returns the cues in display order. The store's own order is never changed.
func (s *Sheet) Rows() []Cue {
	return SortCues(s.store.Cues(), s.sort)
}

// Sort returns the active sort, if any.
func (s *Sheet) Sort() (SortConfig, bool) {
	if s.sort == nil {
		return SortConfig{}, false
	}
	return *s.sort, true
}

// RequestSort applies a header click on key.
func (s *Sheet) RequestSort(key Field) {
	next := s.sort.Toggle(key)
	s.sort = &next
}

// Editing returns the active cell while a session is open.
func (s *Sheet) Editing() (Cell, bool) {
	if s.editing == nil {
		return Cell{}, false
	}
	return *s.editing, true
}

// Buffer returns the pending text of the active cell.
func (s *Sheet) Buffer() string {
	return s.buffer
}

// SetBuffer replaces the pending text. It does nothing while Idle.
func (s *Sheet) SetBuffer(v string) {
	if s.editing != nil {
		s.buffer = v
	}
}

// Activate opens an edit session on the cell at row, col of the sorted view.
// Activating while another cell is open discards that cell's buffer.
func (s *Sheet) Activate(row, col int) error {
	rows := s.Rows()
	if row < 0 || row >= len(rows) {
		return fmt.Errorf("%w: row %d out of range", ErrInvalidValue, row)
	}
	if col < 0 || col >= len(s.columns) {
		return fmt.Errorf("%w: column %d out of range", ErrInvalidValue, col)
	}
	c := rows[row]
	f := s.columns[col].Key
	s.editing = &Cell{CueID: c.ID, Field: f, Row: row, Col: col}
	s.buffer = FormatField(c, f)
	return nil
}

// ActivateCue opens an edit session on a cue's field, as when its marker is clicked.
// Fields without a column open on the first column.
func (s *Sheet) ActivateCue(id string, f Field) error {
	row := slices.IndexFunc(s.Rows(), func(c Cue) bool { return c.ID == id })
	if row < 0 {
		return fmt.Errorf("%w: %s", ErrCueNotFound, id)
	}
	col := max(0, slices.IndexFunc(s.columns, func(c Column) bool { return c.Key == f }))
	return s.Activate(row, col)
}

// Cancel closes the session and throws the buffer away.
func (s *Sheet) Cancel() {
	s.editing = nil
	s.buffer = ""
}

// Commit writes the buffer into the cue and closes the session. A value that does
// not coerce is rejected with ErrInvalidValue and the cue is left as it was.
func (s *Sheet) Commit(ctx context.Context) error {
	if s.editing == nil {
		return nil
	}
	cell, raw := *s.editing, s.buffer
	s.Cancel()

	c, ok := s.store.Get(cell.CueID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrCueNotFound, cell.CueID)
	}
	updated, err := ApplyField(c, cell.Field, raw)
	if err != nil {
		log.Debug("Rejected cell edit", "cue", cell.CueID, "field", cell.Field, "value", raw)
		return err
	}
	return s.store.Update(ctx, updated)
}

// HandleKey drives the session from the keyboard. Keys are ignored while Idle.
func (s *Sheet) HandleKey(ctx context.Context, k Key) error {
	if s.editing == nil {
		return nil
	}
	switch k {
	case KeyEnter:
		return s.Commit(ctx)
	case KeyEscape:
		s.Cancel()
		return nil
	case KeyTab, KeyRight, KeyShiftTab, KeyLeft, KeyUp, KeyDown:
		return s.move(ctx, k)
	}
	return nil
}

// move commits the open cell (leaving a cell counts as losing focus) and opens
// its neighbour. Columns wrap; rows clamp at the ends of the view.
func (s *Sheet) move(ctx context.Context, k Key) error {
	from := *s.editing
	if err := s.Commit(ctx); err != nil {
		return err
	}

	rows := s.Rows()
	if len(rows) == 0 {
		return nil
	}
	row := slices.IndexFunc(rows, func(c Cue) bool { return c.ID == from.CueID })
	if row < 0 {
		row = min(from.Row, len(rows)-1)
	}
	col, n := from.Col, len(s.columns)

	switch k {
	case KeyTab, KeyRight:
		col = (col + 1) % n
	case KeyShiftTab, KeyLeft:
		col = (col - 1 + n) % n
	case KeyDown:
		row = min(row+1, len(rows)-1)
	case KeyUp:
		row = max(row-1, 0)
	}
	return s.Activate(row, col)
}

// ApplyField coerces raw into field f of c and returns the modified copy.
func ApplyField(c Cue, f Field, raw string) (Cue, error) {
	switch f {
	case FieldNumber, FieldPage:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 {
			return c, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidValue, f, raw)
		}
		if f == FieldNumber {
			c.Number = n
		} else {
			c.Page = n
		}
	case FieldPosition:
		var p struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := json.Unmarshal([]byte(raw), &p); err != nil || p.X == nil || p.Y == nil {
			// Malformed positions keep the previous value.
			return c, nil
		}
		c.Position = Position{X: *p.X, Y: *p.Y}.Clamp()
	case FieldType:
		t, err := ParseCueType(raw)
		if err != nil {
			return c, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		c.Type = t
	case FieldLineLength, FieldRotation:
		v, err := parseOptionalFloat(raw)
		if err != nil {
			return c, fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidValue, f, raw)
		}
		if f == FieldLineLength {
			c.LineLength = clampLine(v)
		} else {
			c.Rotation = v
		}
	case FieldLabel:
		c.Label = raw
	case FieldTime:
		c.Time = raw
	case FieldNotes:
		c.Notes = raw
	case FieldColor:
		c.Color = raw
	case FieldID:
		return c, fmt.Errorf("%w: id cannot be edited", ErrInvalidValue)
	default:
		return c, fmt.Errorf("%w: unknown field %q", ErrInvalidValue, f)
	}
	return c, nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("not a finite number: %q", raw)
	}
	return &v, nil
}
