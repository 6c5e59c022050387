package templates

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/zenibako/cuesheet/cuesheet"
)

// Swatch is one entry of the colour picker
type Swatch struct {
	Name string `json:"name" yaml:"name"`
	Hex  string `json:"hex" yaml:"hex"`
}

// Palette is the colour picker offered for new cues, in display order
var Palette = []Swatch{
	{Name: "Red", Hex: "#EF4444"},
	{Name: "Orange", Hex: "#F97316"},
	{Name: "Yellow", Hex: "#EAB308"},
	{Name: "Green", Hex: "#22C55E"},
	{Name: "Blue", Hex: "#3B82F6"},
	{Name: "Purple", Hex: "#A855F7"},
	{Name: "Pink", Hex: "#EC4899"},
	{Name: "Gray", Hex: "#6B7280"},
}

// ProjectIcons are the icons a new project can be given
var ProjectIcons = []string{"📄", "🎬", "🎵", "💡"}

// RandomProjectIcon picks an icon for a new project
func RandomProjectIcon() string {
	return ProjectIcons[rand.IntN(len(ProjectIcons))]
}

// LookupSwatch resolves a colour by palette name (case-insensitive) or hex value
func LookupSwatch(s string) (Swatch, bool) {
	for _, sw := range Palette {
		if strings.EqualFold(sw.Name, s) || strings.EqualFold(sw.Hex, s) {
			return sw, true
		}
	}
	return Swatch{}, false
}

// CueTemplate holds the prefilled values of the manual "add cue" form
type CueTemplate struct {
	Type   cuesheet.CueType `json:"type" yaml:"type"`
	Number int              `json:"number" yaml:"number"`
	Page   int              `json:"page" yaml:"page"`
	Label  string           `json:"label" yaml:"label"`
	Time   string           `json:"time,omitempty" yaml:"time,omitempty"`
	Notes  string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	Color  string           `json:"color" yaml:"color"`
}

// NewCueTemplate prefills the form for the next cue in store, placed on page
func NewCueTemplate(store *cuesheet.Store, page int) CueTemplate {
	n := store.NextNumber()
	return CueTemplate{
		Type:   cuesheet.CueTypeLX,
		Number: n,
		Page:   max(page, 1),
		Label:  fmt.Sprintf("Cue %d", n),
		Color:  "blue",
	}
}

// Draft turns the filled-in form into a draft for the store. The cue lands in
// the middle of the page; the number is assigned by the store.
func (t CueTemplate) Draft() cuesheet.Draft {
	return cuesheet.Draft{
		Page:     t.Page,
		Position: cuesheet.Position{X: 50, Y: 50},
		Label:    t.Label,
		Time:     t.Time,
		Notes:    t.Notes,
		Color:    t.Color,
		Type:     t.Type,
	}
}
