package model

// Turn role constants for the reply oracle.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single role-tagged utterance fed to the reply oracle.
type Turn struct {
	Role    string
	Content string
}

// TurnFromMessage maps a stored message onto an oracle turn: inbound
// messages speak as the user, outbound ones as the assistant. Attachment
// placeholder text passes through verbatim.
func TurnFromMessage(m Message) Turn {
	role := RoleAssistant
	if m.Direction == DirectionInbound {
		role = RoleUser
	}
	return Turn{Role: role, Content: m.Content}
}
