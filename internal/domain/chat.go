package domain

// Chat roles understood by the chat model adapters
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn of a conversation with the advisor assistant
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
