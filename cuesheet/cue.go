package cuesheet

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// CueType is the department a cue belongs to.
type CueType string

// CueType constants for the closed set of cue departments
const (
	CueTypeLX    CueType = "LX"
	CueTypeSFX   CueType = "SFX"
	CueTypeVideo CueType = "VIDEO"
	CueTypeProps CueType = "PROPS"
	CueTypeOther CueType = "OTHER"
)

// CueTypes lists every valid cue type in display order.
var CueTypes = []CueType{CueTypeLX, CueTypeSFX, CueTypeVideo, CueTypeProps, CueTypeOther}

// Line length bounds for the connector drawn from a cue marker, in pixels.
const (
	MinLineLength     = 50.0
	MaxLineLength     = 500.0
	DefaultLineLength = 100.0
)

var (
	ErrCueNotFound    = errors.New("cue not found")
	ErrInvalidValue   = errors.New("invalid value")
	ErrUnknownCueType = errors.New("unknown cue type")
)

// ParseCueType resolves a cue type name, case-insensitively.
func ParseCueType(s string) (CueType, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range CueTypes {
		if string(t) == want {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCueType, s)
}

// Position is a percentage offset within the page canvas. Both axes are in [0,100].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Clamp returns the position with both axes forced into [0,100].
func (p Position) Clamp() Position {
	return Position{X: clamp(p.X, 0, 100), Y: clamp(p.Y, 0, 100)}
}

// finite reports whether both axes are real numbers.
func (p Position) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Cue is a single annotation marker tied to a page and a position on that page.
type Cue struct {
	ID         string   `json:"id"`
	Number     int      `json:"number"`
	Page       int      `json:"page"`
	Position   Position `json:"position"`
	Label      string   `json:"label"`
	Time       string   `json:"time"`
	Notes      string   `json:"notes"`
	Color      string   `json:"color"`
	Type       CueType  `json:"type"`
	LineLength *float64 `json:"lineLength,omitempty"`
	// Rotation is stored and round-tripped but nothing interprets it.
	Rotation *float64 `json:"rotation,omitempty"`
}

// EffectiveLineLength returns the connector length, falling back to the default.
func (c Cue) EffectiveLineLength() float64 {
	if c.LineLength == nil {
		return DefaultLineLength
	}
	return *c.LineLength
}

// Draft is a cue that has not been given an identifier or number yet.
type Draft struct {
	Page       int
	Position   Position
	Label      string
	Time       string
	Notes      string
	Color      string
	Type       CueType
	LineLength *float64
}

// SceneHeading marks the start of a scene (and optionally an act) on a page.
type SceneHeading struct {
	PageNumber  int    `json:"pageNumber"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	IsActStart  bool   `json:"isActStart,omitempty"`
	IsActEnd    bool   `json:"isActEnd,omitempty"`
	ActNumber   *int   `json:"actNumber,omitempty"`
}

// Project is one source document plus the cues placed on it. It is the unit of persistence.
type Project struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Icon          string         `json:"icon"`
	PDFURL        string         `json:"pdfUrl"`
	Cues          []Cue          `json:"cues"`
	SceneHeadings []SceneHeading `json:"sceneHeadings,omitempty"`
	UserID        string         `json:"userId,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// clamp forces v into [lo,hi]. NaN compares false both ways, so it maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floatPtr(v float64) *float64 {
	return &v
}
