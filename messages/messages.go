package messages

import (
	"fmt"
	"strings"
)

// OSC message types and address constants for the messages the push bridge sends

// Message types
type MessageType string

const (
	// Application messages
	MsgConnect MessageType = "connect"

	// Workspace messages
	MsgNewCue MessageType = "new_cue"
)

// OSC Address patterns
const (
	AddrConnect = "/connect"
	AddrNew     = "/new"

	// Properties of the cue QLab selects after /new are set below this
	AddrSelectedCue = "/cue/selected"
)

// CuePropertyMap maps cue sheet fields to the QLab properties they are pushed as
var CuePropertyMap = map[string]string{
	"number": "number",
	"label":  "name",
	"name":   "name",
	"notes":  "notes",
	"color":  "colorName",
}

// OSCAddressBuilder builds OSC addresses, scoped to a workspace when one is set
type OSCAddressBuilder struct {
	workspaceID string
}

// NewOSCAddressBuilder creates a new address builder. An empty workspaceID
// addresses whichever workspace QLab has in front.
func NewOSCAddressBuilder(workspaceID string) *OSCAddressBuilder {
	return &OSCAddressBuilder{
		workspaceID: workspaceID,
	}
}

// BuildAddress builds an OSC address from a message type
func (b *OSCAddressBuilder) BuildAddress(msgType MessageType) string {
	var address string

	switch msgType {
	case MsgConnect:
		address = AddrConnect
	case MsgNewCue:
		address = AddrNew
	default:
		return ""
	}

	return b.GetWorkspacePrefix() + address
}

// BuildSelectedPropertyAddress builds the address that sets a property on the
// selected cue. Unknown properties are passed through as QLab property names.
func (b *OSCAddressBuilder) BuildSelectedPropertyAddress(property string) string {
	oscProperty, exists := CuePropertyMap[property]
	if !exists {
		oscProperty = strings.TrimPrefix(property, "/")
	}
	return fmt.Sprintf("%s%s/%s", b.GetWorkspacePrefix(), AddrSelectedCue, oscProperty)
}

// GetWorkspacePrefix returns the workspace prefix for addresses that need it
func (b *OSCAddressBuilder) GetWorkspacePrefix() string {
	if b.workspaceID == "" {
		return ""
	}
	return fmt.Sprintf("/workspace/%s", b.workspaceID)
}
