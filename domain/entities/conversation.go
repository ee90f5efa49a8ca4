package entities

// Role identifies who authored a conversation turn
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single entry of a conversation history
type Turn struct {
	Role    Role   `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// ConversationContext is the prior history of a conversation as seen by the pipeline.
// It is owned by the session store and only read by the pipeline.
type ConversationContext struct {
	ConversationID string `json:"conversation_id"`
	Turns          []Turn `json:"turns"`
}

// Window returns at most the last n turns
func (c ConversationContext) Window(n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(c.Turns) <= n {
		return c.Turns
	}
	return c.Turns[len(c.Turns)-n:]
}

// Utterance is one unit of user input
type Utterance struct {
	Text         string
	LanguageHint string
	Audio        *AudioAsset
}
