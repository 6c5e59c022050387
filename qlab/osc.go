package qlab

import (
	"github.com/charmbracelet/log"
	"github.com/hypebeast/go-osc/osc"
)

// Sender delivers OSC packets. *osc.Client satisfies it.
type Sender interface {
	Send(packet osc.Packet) error
}

func (q *Workspace) send(address string, args ...any) error {
	q.sent++
	if q.dryRun {
		log.Printf("[DRY RUN] Would send OSC message: %s %v", address, args)
		return nil
	}
	return q.SendNoReply(address, args...)
}

// SendNoReply sends a single message without waiting for QLab to answer
func (q *Workspace) SendNoReply(address string, args ...any) error {
	msg := osc.NewMessage(address)
	for _, arg := range args {
		msg.Append(arg)
	}
	log.Debugf("Sending message without reply: %s %v", address, args)
	return q.client.Send(msg)
}
