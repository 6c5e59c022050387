package qlab

import (
	"encoding/json"
	"fmt"

	"github.com/zenibako/cuesheet/cuesheet"
)

// ToWorkspaceData converts a project's cues into the QLab cues a push would
// create, in push order (ascending cue number).
// The caller can serialize this to JSON, YAML, or any other format.
func ToWorkspaceData(workspaceName string, cues []cuesheet.Cue) WorkspaceData {
	ordered := cuesheet.SortCues(cues, &cuesheet.SortConfig{Key: cuesheet.FieldNumber})
	out := make([]Cue, len(ordered))
	for i, c := range ordered {
		out[i] = FromCue(c)
	}

	return WorkspaceData{
		Name: workspaceName,
		Cues: out,
	}
}

// ToJSON converts workspace name and cues to JSON format.
// The caller can write this to a .json file if needed.
func ToJSON(workspaceName string, cues []cuesheet.Cue, indent bool) (string, error) {
	data := ToWorkspaceData(workspaceName, cues)
	var result []byte
	var err error

	if indent {
		result, err = json.MarshalIndent(data, "", "  ")
	} else {
		result, err = json.Marshal(data)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal workspace data: %w", err)
	}

	return string(result), nil
}
