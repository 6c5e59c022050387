package qlab_test

import (
	"context"
	"fmt"

	"github.com/zenibako/cuesheet/cuesheet"
	"github.com/zenibako/cuesheet/qlab"
)

// Example demonstrating how to export cues in the shape a push creates them
func ExampleToWorkspaceData() {
	cues := []cuesheet.Cue{
		{Number: 2, Page: 5, Label: "Doorbell", Color: "green", Type: cuesheet.CueTypeSFX},
		{Number: 1, Page: 1, Label: "House to half", Color: "blue", Type: cuesheet.CueTypeLX},
	}

	data := qlab.ToWorkspaceData("My Show", cues)

	for _, c := range data.Cues {
		fmt.Printf("%s | %s | %s\n", c.Number, c.Name, c.ColorName)
	}

	// Output:
	// LX 1 | House to half | blue
	// SFX 2 | Doorbell | green
}

// Example demonstrating a dry run, which logs messages instead of sending them
func ExampleWorkspace_PushCues() {
	ws := qlab.NewWorkspace("localhost", 53000)
	ws.SetDryRun(true)

	result, err := ws.PushCues(context.Background(), []cuesheet.Cue{
		{Number: 1, Page: 1, Label: "Preset", Type: cuesheet.CueTypeLX},
	})
	if err != nil {
		panic(err)
	}

	fmt.Println("cues:", result.Cues, "messages:", result.Messages)
	// Output: cues: 1 messages: 5
}
