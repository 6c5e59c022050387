package qlab

// Cue is the QLab side of a pushed cue: a memo cue carrying the cue sheet's
// number, label, notes and colour.
type Cue struct {
	Type      string `json:"type"`
	Number    string `json:"number,omitempty"`
	Name      string `json:"name,omitempty"`
	Notes     string `json:"notes,omitempty"`
	ColorName string `json:"colorName,omitempty"`
}

// WorkspaceData represents a workspace as it would be pushed
type WorkspaceData struct {
	Name string `json:"name"`
	Cues []Cue  `json:"cues"`
}

// CueTypeMemo is the only cue type the bridge creates
const CueTypeMemo = "memo"

// ColorName constants. These are the names every QLab version accepts for
// /cue/selected/colorName.
const (
	ColorNone   = "none"
	ColorRed    = "red"
	ColorOrange = "orange"
	ColorGreen  = "green"
	ColorBlue   = "blue"
	ColorPurple = "purple"
)
