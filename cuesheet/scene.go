package cuesheet

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultSceneColor is the accent used for scene headings without a colour.
const DefaultSceneColor = "#3B82F6"

// AddSceneHeading validates h and appends it to scenes. Titles and descriptions are
// trimmed and an empty title is rejected.
func AddSceneHeading(scenes []SceneHeading, h SceneHeading) ([]SceneHeading, error) {
	h.Title = strings.TrimSpace(h.Title)
	h.Description = strings.TrimSpace(h.Description)
	if h.Title == "" {
		return scenes, fmt.Errorf("%w: scene title is required", ErrInvalidValue)
	}
	if h.PageNumber < 1 {
		return scenes, fmt.Errorf("%w: page %d", ErrInvalidValue, h.PageNumber)
	}
	if h.Color == "" {
		h.Color = DefaultSceneColor
	}
	return append(slices.Clone(scenes), h), nil
}

// SceneForPage returns the first heading placed on page.
func SceneForPage(scenes []SceneHeading, page int) (SceneHeading, bool) {
	i := slices.IndexFunc(scenes, func(h SceneHeading) bool { return h.PageNumber == page })
	if i < 0 {
		return SceneHeading{}, false
	}
	return scenes[i], true
}
