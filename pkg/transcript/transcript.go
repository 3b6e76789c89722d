package transcript

import "fmt"

// Role is the author of a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Message is one (role, text) pair. Values are copied, never shared.
type Message struct {
	Role Role
	Text string
}

// Transcript is the append-only conversation history of one session.
// The first message is always the system instruction it was created with.
// It is not safe for concurrent use.
type Transcript struct {
	messages []Message
}

// New returns a transcript seeded with the system instruction.
func New(instructions string) *Transcript {
	return &Transcript{
		messages: []Message{{Role: RoleSystem, Text: instructions}},
	}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(role Role, text string) error {
	switch role {
	case RoleSystem, RoleHuman, RoleAssistant:
	default:
		return fmt.Errorf("invalid message role: %q", role)
	}
	t.messages = append(t.messages, Message{Role: role, Text: text})
	return nil
}

// Messages returns a copy of the transcript in conversation order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages, including the system instruction.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Instructions returns the system instruction the transcript was seeded with.
func (t *Transcript) Instructions() string {
	return t.messages[0].Text
}

// Last returns the most recent message.
func (t *Transcript) Last() Message {
	return t.messages[len(t.messages)-1]
}
