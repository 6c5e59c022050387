package cuesheet

// Settings is the full set of annotation preferences. It is passed by value;
// code that wants different settings builds a new value rather than mutating a shared one.
type Settings struct {
	DefaultCueType  CueType `yaml:"default_cue_type" json:"defaultCueType"`
	DefaultCueColor string  `yaml:"default_cue_color" json:"defaultCueColor"`
	SnapDistance    float64 `yaml:"snap_distance" json:"snapDistance"`
	SnapThreshold   float64 `yaml:"snap_threshold" json:"snapThreshold"`
	AutoSave        bool    `yaml:"auto_save" json:"autoSave"`
	AutoNumberCues  bool    `yaml:"auto_number_cues" json:"autoNumberCues"`
	ConfirmDelete   bool    `yaml:"confirm_delete" json:"confirmDelete"`
	ShowPageNumbers bool    `yaml:"show_page_numbers" json:"showPageNumbers"`
	ShowCueCounts   bool    `yaml:"show_cue_counts" json:"showCueCounts"`
	ShowCueLabels   bool    `yaml:"show_cue_labels" json:"showCueLabels"`
	ShowGrid        bool    `yaml:"show_grid" json:"showGrid"`
	GridSize        int     `yaml:"grid_size" json:"gridSize"`
	ShowRulers      bool    `yaml:"show_rulers" json:"showRulers"`
	ThumbnailSize   string  `yaml:"thumbnail_size" json:"thumbnailSize"`
	CueSize         string  `yaml:"cue_size" json:"cueSize"`
	SidebarWidth    int     `yaml:"sidebar_width" json:"sidebarWidth"`
	Theme           string  `yaml:"theme" json:"theme"`
	Scale           float64 `yaml:"scale" json:"scale"`
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() Settings {
	return Settings{
		DefaultCueType:  CueTypeLX,
		DefaultCueColor: "#FF0000",
		SnapDistance:    DefaultSnap.Distance,
		SnapThreshold:   DefaultSnap.Threshold,
		AutoSave:        true,
		AutoNumberCues:  true,
		ConfirmDelete:   true,
		ShowPageNumbers: true,
		ShowCueCounts:   true,
		ShowCueLabels:   true,
		GridSize:        20,
		ThumbnailSize:   "medium",
		CueSize:         "medium",
		SidebarWidth:    320,
		Theme:           "light",
		Scale:           DefaultScale,
	}
}

var sizes = map[string]bool{"small": true, "medium": true, "large": true}

// Normalize replaces out-of-range or unknown values with their defaults.
func (s Settings) Normalize() Settings {
	d := DefaultSettings()
	if t, err := ParseCueType(string(s.DefaultCueType)); err != nil {
		s.DefaultCueType = d.DefaultCueType
	} else {
		s.DefaultCueType = t
	}
	if s.DefaultCueColor == "" {
		s.DefaultCueColor = d.DefaultCueColor
	}
	if s.SnapDistance < 0 {
		s.SnapDistance = d.SnapDistance
	}
	if s.SnapThreshold < 0 || s.SnapThreshold > 100 {
		s.SnapThreshold = d.SnapThreshold
	}
	if s.GridSize <= 0 {
		s.GridSize = d.GridSize
	}
	if !sizes[s.ThumbnailSize] {
		s.ThumbnailSize = d.ThumbnailSize
	}
	if !sizes[s.CueSize] {
		s.CueSize = d.CueSize
	}
	if s.SidebarWidth <= 0 {
		s.SidebarWidth = d.SidebarWidth
	}
	if s.Theme != "light" && s.Theme != "dark" {
		s.Theme = d.Theme
	}
	if s.Scale < MinScale || s.Scale > MaxScale {
		s.Scale = d.Scale
	}
	return s
}

// Snap returns the snap guide described by these settings.
func (s Settings) Snap() Snap {
	return Snap{Distance: s.SnapDistance, Threshold: s.SnapThreshold}
}
