package domain

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one message of an LLM prompt
type ChatMessage struct {
	Role    string
	Content string
}

// CompletionRequest is an LLM chat completion call
type CompletionRequest struct {
	Messages    []ChatMessage
	Temperature float32
	MaxTokens   int
}

// Prompt builds the common system + user prompt
func Prompt(system, user string) []ChatMessage {
	return []ChatMessage{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}
