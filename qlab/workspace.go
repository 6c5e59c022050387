package qlab

import (
	"context"
	"fmt"
	"time"

	"github.com/zenibako/cuesheet/cuesheet"
	"github.com/zenibako/cuesheet/messages"

	"github.com/charmbracelet/log"
	"github.com/hypebeast/go-osc/osc"
)

// Workspace pushes cues into a running QLab workspace over OSC (UDP). Messages
// are fire-and-forget: QLab's replies are not read.
type Workspace struct {
	host           string
	port           int
	client         Sender
	workspaceID    string
	addressBuilder *messages.OSCAddressBuilder
	connected      bool
	dryRun         bool          // Whether to log messages instead of sending them
	sent           int           // Messages sent (or logged in dry-run mode)
	interval       time.Duration // Pause between cues so QLab keeps up with the selection
}

// PushResult summarises a push
type PushResult struct {
	Cues     int
	Messages int
}

func NewWorkspace(host string, port int) Workspace {
	return Workspace{
		host:           host,
		port:           port,
		client:         osc.NewClient(host, port),
		addressBuilder: messages.NewOSCAddressBuilder(""),
	}
}

// NewWorkspaceWithSender creates a workspace that sends through s instead of UDP
func NewWorkspaceWithSender(s Sender) Workspace {
	return Workspace{
		client:         s,
		addressBuilder: messages.NewOSCAddressBuilder(""),
	}
}

// SetDryRun sets whether to run in dry-run mode (no messages leave the process)
func (q *Workspace) SetDryRun(dryRun bool) {
	q.dryRun = dryRun
}

// SetWorkspaceID scopes every address to one workspace. Empty targets the
// workspace QLab has in front.
func (q *Workspace) SetWorkspaceID(id string) {
	q.workspaceID = id
	q.addressBuilder = messages.NewOSCAddressBuilder(id)
}

// SetInterval sets the pause between cues
func (q *Workspace) SetInterval(d time.Duration) {
	q.interval = d
}

// Init sends /connect. An empty passcode is left off the message, which is what
// QLab expects for workspaces without one.
func (q *Workspace) Init(passcode string) error {
	address := q.addressBuilder.BuildAddress(messages.MsgConnect)
	var err error
	if passcode == "" {
		err = q.send(address)
	} else {
		err = q.send(address, passcode)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to QLab at %s:%d: %w", q.host, q.port, err)
	}
	q.connected = true
	log.Info("Connected to QLab", "host", q.host, "port", q.port, "workspace", q.workspaceID)
	return nil
}

func (q *Workspace) IsConnected() bool {
	return q.connected
}

// MessagesSent returns how many messages this workspace has sent
func (q *Workspace) MessagesSent() int {
	return q.sent
}

// PushCues creates one memo cue per cue sheet cue, in ascending cue number. Each
// cue is created with /new and then filled in through /cue/selected, since QLab
// selects the cue it just created.
func (q *Workspace) PushCues(ctx context.Context, cues []cuesheet.Cue) (PushResult, error) {
	data := ToWorkspaceData("", cues)
	start := q.sent
	result := PushResult{}

	for i, c := range data.Cues {
		if err := ctx.Err(); err != nil {
			result.Messages = q.sent - start
			return result, err
		}
		if err := q.pushCue(c); err != nil {
			result.Messages = q.sent - start
			return result, fmt.Errorf("failed to push cue %s: %w", c.Number, err)
		}
		result.Cues++
		log.Debug("Pushed cue", "number", c.Number, "name", c.Name)

		if q.interval > 0 && i < len(data.Cues)-1 {
			select {
			case <-ctx.Done():
				result.Messages = q.sent - start
				return result, ctx.Err()
			case <-time.After(q.interval):
			}
		}
	}

	result.Messages = q.sent - start
	log.Info("Pushed cues to QLab", "cues", result.Cues, "messages", result.Messages, "dry_run", q.dryRun)
	return result, nil
}

func (q *Workspace) pushCue(c Cue) error {
	if err := q.send(q.addressBuilder.BuildAddress(messages.MsgNewCue), c.Type); err != nil {
		return err
	}
	// cue sheet field, then the value QLab gets for it
	props := []struct {
		field string
		value string
	}{
		{"number", c.Number},
		{"label", c.Name},
		{"notes", c.Notes},
		{"color", c.ColorName},
	}
	for _, p := range props {
		if err := q.send(q.addressBuilder.BuildSelectedPropertyAddress(p.field), p.value); err != nil {
			return err
		}
	}
	return nil
}
