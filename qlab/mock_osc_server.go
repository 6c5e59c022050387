package qlab

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hypebeast/go-osc/osc"
)

// ReceivedMessage captures details about received OSC messages for testing
type ReceivedMessage struct {
	Address   string
	Arguments []any
	Timestamp time.Time
}

// MockCue is a cue created in the mock workspace
type MockCue struct {
	Type       string
	Properties map[string]string
}

// MockOSCServer simulates the part of QLab the push bridge talks to: /connect,
// /new and property writes on the selected cue. It never replies.
type MockOSCServer struct {
	host             string
	port             int
	passcode         string
	server           *osc.Server
	mu               sync.RWMutex
	isRunning        bool
	connected        bool
	cues             []*MockCue
	selected         *MockCue
	receivedMessages []ReceivedMessage
}

// NewMockOSCServer creates a new mock QLab OSC server. A non-empty passcode
// must be presented on /connect.
func NewMockOSCServer(host string, port int, passcode string) *MockOSCServer {
	return &MockOSCServer{
		host:     host,
		port:     port,
		passcode: passcode,
	}
}

// Start starts the mock OSC server
func (m *MockOSCServer) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		return fmt.Errorf("mock server already running")
	}

	d := osc.NewStandardDispatcher()
	_ = d.AddMsgHandler("*", m.handle)

	m.server = &osc.Server{
		Addr:       fmt.Sprintf("%s:%d", m.host, m.port),
		Dispatcher: d,
	}
	server := m.server
	go func() {
		if err := server.ListenAndServe(); err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
			log.Errorf("Mock OSC server error: %v", err)
		}
	}()

	// Give the server time to bind
	time.Sleep(100 * time.Millisecond)

	m.isRunning = true
	log.Infof("Mock QLab OSC server started on %s:%d", m.host, m.port)
	return nil
}

// Stop stops the mock OSC server
func (m *MockOSCServer) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.isRunning {
		return nil
	}
	m.isRunning = false
	if m.server != nil {
		server := m.server
		m.server = nil
		if err := server.CloseConnection(); err != nil {
			log.Warnf("Failed to close mock server: %v", err)
		}
	}
	log.Info("Mock QLab OSC server stopped")
	return nil
}

func (m *MockOSCServer) handle(msg *osc.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.receivedMessages = append(m.receivedMessages, ReceivedMessage{
		Address:   msg.Address,
		Arguments: append([]any{}, msg.Arguments...),
		Timestamp: time.Now(),
	})

	address := msg.Address
	if strings.HasPrefix(address, "/workspace/") {
		// Strip /workspace/{id}
		parts := strings.SplitN(address, "/", 4)
		if len(parts) < 4 {
			return
		}
		address = "/" + parts[3]
	}

	switch {
	case address == "/connect":
		given := firstString(msg.Arguments)
		m.connected = m.passcode == "" || given == m.passcode
		log.Debugf("Mock server connect, accepted=%v", m.connected)
	case address == "/new":
		if !m.connected && m.passcode != "" {
			return
		}
		cue := &MockCue{Type: firstString(msg.Arguments), Properties: make(map[string]string)}
		m.cues = append(m.cues, cue)
		m.selected = cue
	case strings.HasPrefix(address, "/cue/selected/"):
		if m.selected == nil {
			return
		}
		property := strings.TrimPrefix(address, "/cue/selected/")
		m.selected.Properties[property] = firstString(msg.Arguments)
	}
}

// Send hands packet straight to the mock, bypassing UDP. The server dispatches
// datagrams concurrently, so tests that care about message order use this.
func (m *MockOSCServer) Send(packet osc.Packet) error {
	msg, ok := packet.(*osc.Message)
	if !ok {
		return fmt.Errorf("unsupported packet %T", packet)
	}
	m.handle(msg)
	return nil
}

func firstString(args []any) string {
	if len(args) == 0 {
		return ""
	}
	s, _ := args[0].(string)
	return s
}

// GetCues returns copies of the cues created so far
func (m *MockOSCServer) GetCues() []MockCue {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]MockCue, len(m.cues))
	for i, c := range m.cues {
		props := make(map[string]string, len(c.Properties))
		for k, v := range c.Properties {
			props[k] = v
		}
		out[i] = MockCue{Type: c.Type, Properties: props}
	}
	return out
}

// IsConnected reports whether a /connect with the right passcode arrived
func (m *MockOSCServer) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// GetReceivedMessages returns all captured messages for testing
func (m *MockOSCServer) GetReceivedMessages() []ReceivedMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]ReceivedMessage, len(m.receivedMessages))
	copy(messages, m.receivedMessages)
	return messages
}

// WaitForMessages blocks until at least n messages arrived or timeout passes
func (m *MockOSCServer) WaitForMessages(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		m.mu.RLock()
		got := len(m.receivedMessages)
		m.mu.RUnlock()
		if got >= n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// GetMessagesForAddress returns messages whose address contains addressPattern
func (m *MockOSCServer) GetMessagesForAddress(addressPattern string) []ReceivedMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []ReceivedMessage
	for _, msg := range m.receivedMessages {
		if strings.Contains(msg.Address, addressPattern) {
			matches = append(matches, msg)
		}
	}
	return matches
}
