package qlab

import (
	"fmt"
	"strings"

	"github.com/zenibako/cuesheet/cuesheet"
)

// CueNumber is the QLab cue number for a cue sheet cue, e.g. "LX 12"
func CueNumber(c cuesheet.Cue) string {
	return fmt.Sprintf("%s %d", c.Type, c.Number)
}

// FromCue maps a cue sheet cue onto the memo cue that represents it in QLab.
// Unlabelled cues are named after their number.
func FromCue(c cuesheet.Cue) Cue {
	name := strings.TrimSpace(c.Label)
	if name == "" {
		name = CueNumber(c)
	}
	return Cue{
		Type:      CueTypeMemo,
		Number:    CueNumber(c),
		Name:      name,
		Notes:     cueNotes(c),
		ColorName: ColorName(c.Color),
	}
}

// cueNotes carries the script position and timing into the QLab notes field
func cueNotes(c cuesheet.Cue) string {
	lines := []string{fmt.Sprintf("Page %d", c.Page)}
	if t := strings.TrimSpace(c.Time); t != "" {
		lines = append(lines, "Time "+t)
	}
	if n := strings.TrimSpace(c.Notes); n != "" {
		lines = append(lines, "", n)
	}
	return strings.Join(lines, "\n")
}
