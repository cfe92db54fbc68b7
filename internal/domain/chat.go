package domain

// Chat roles understood by the chat completion provider.
const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is the provider-agnostic chat message shape passed to the
// chat completion adapter.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
