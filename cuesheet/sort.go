package cuesheet

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Field names a cue attribute that can be shown, sorted or edited in the sheet.
type Field string

const (
	FieldID         Field = "id"
	FieldType       Field = "type"
	FieldNumber     Field = "number"
	FieldPage       Field = "page"
	FieldPosition   Field = "position"
	FieldLabel      Field = "label"
	FieldTime       Field = "time"
	FieldNotes      Field = "notes"
	FieldColor      Field = "color"
	FieldLineLength Field = "lineLength"
	FieldRotation   Field = "rotation"
)

// Fields lists every known field.
var Fields = []Field{
	FieldID, FieldType, FieldNumber, FieldPage, FieldPosition, FieldLabel,
	FieldTime, FieldNotes, FieldColor, FieldLineLength, FieldRotation,
}

// ParseField resolves a field name.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown field %q", ErrInvalidValue, s)
}

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// SortConfig is the active sort of the sheet.
type SortConfig struct {
	Key       Field
	Direction Direction
}

// Toggle returns the sort that results from clicking the header for key: the same
// key flips ascending to descending, anything else starts ascending.
func (s *SortConfig) Toggle(key Field) SortConfig {
	if s != nil && s.Key == key && s.Direction == Ascending {
		return SortConfig{Key: key, Direction: Descending}
	}
	return SortConfig{Key: key, Direction: Ascending}
}

// sortValue is a field value as the comparator sees it. A value with neither
// kind set is undefined and compares equal to everything.
type sortValue struct {
	str *string
	num *float64
}

func valueOf(c Cue, f Field) sortValue {
	str := func(s string) sortValue { return sortValue{str: &s} }
	num := func(n float64) sortValue { return sortValue{num: &n} }
	switch f {
	case FieldID:
		return str(c.ID)
	case FieldType:
		return str(string(c.Type))
	case FieldNumber:
		return num(float64(c.Number))
	case FieldPage:
		return num(float64(c.Page))
	case FieldLabel:
		return str(c.Label)
	case FieldTime:
		return str(c.Time)
	case FieldNotes:
		return str(c.Notes)
	case FieldColor:
		return str(c.Color)
	case FieldLineLength:
		if c.LineLength != nil {
			return num(*c.LineLength)
		}
	case FieldRotation:
		if c.Rotation != nil {
			return num(*c.Rotation)
		}
	}
	return sortValue{}
}

// SortCues returns a sorted copy of cues; the input is left untouched. A nil
// config returns the cues in their original order.
func SortCues(cues []Cue, cfg *SortConfig) []Cue {
	out := slices.Clone(cues)
	if cfg == nil {
		return out
	}

	if cfg.Key == FieldNumber {
		// Cue numbers always read upwards, whatever direction was asked for.
		slices.SortStableFunc(out, func(a, b Cue) int { return cmp.Compare(a.Number, b.Number) })
		return out
	}

	coll := collate.New(language.Und)
	compare := func(a, b Cue) int {
		av, bv := valueOf(a, cfg.Key), valueOf(b, cfg.Key)
		switch {
		case av.str != nil && bv.str != nil:
			return coll.CompareString(*av.str, *bv.str)
		case av.num != nil && bv.num != nil:
			return cmp.Compare(*av.num, *bv.num)
		default:
			return 0
		}
	}
	if cfg.Direction == Descending {
		slices.SortStableFunc(out, func(a, b Cue) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// FormatField renders a field the way the sheet displays and edits it.
func FormatField(c Cue, f Field) string {
	switch f {
	case FieldPosition:
		return fmt.Sprintf(`{"x":%s,"y":%s}`, formatFloat(c.Position.X), formatFloat(c.Position.Y))
	case FieldNumber:
		return strconv.Itoa(c.Number)
	case FieldPage:
		return strconv.Itoa(c.Page)
	}
	v := valueOf(c, f)
	switch {
	case v.str != nil:
		return *v.str
	case v.num != nil:
		return formatFloat(*v.num)
	default:
		return ""
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
