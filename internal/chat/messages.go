package chat

// Inbound message types.
const (
	msgJoin    = "join"
	msgComment = "comment"
	msgTyping  = "typing"
)

// Outbound event types.
const (
	evtUserJoined = "user_joined"
	evtUserLeft   = "user_left"
	evtNewComment = "new_comment"
	evtTyping     = "typing"
)

// inboundMessage is the envelope for all client-to-server messages.
// IsTyping is a pointer so a missing field can be told apart from false.
type inboundMessage struct {
	Type     string `json:"type"`
	User     string `json:"user,omitempty"`
	Name     string `json:"name,omitempty"`
	Comment  string `json:"comment,omitempty"`
	IsTyping *bool  `json:"is_typing,omitempty"`
}

// Event is the envelope for all server-to-client messages.
type Event struct {
	Type     string `json:"type"`
	User     string `json:"user,omitempty"`
	Name     string `json:"name,omitempty"`
	Comment  string `json:"comment,omitempty"`
	Time     string `json:"time,omitempty"`
	IsTyping *bool  `json:"is_typing,omitempty"`
}
