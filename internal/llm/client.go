// Package llm contains the chat-completion client interface and the
// provider implementations used by the chat pipelines.
package llm

import (
	"context"

	"github.com/nmehta-dev/weatherchat/internal/tools"
)

// Role represents the originator of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message represents a single message in a conversation transcript.
// Messages are built per turn and never mutated after being sent.
type Message struct {
	Role       Role              `json:"role"`
	Content    string            `json:"content"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	ToolCalls  []*tools.ToolCall `json:"tool_calls,omitempty"`
}

// GenerationConfig holds the sampling parameters for a single completion call.
type GenerationConfig struct {
	// The specific model to use (e.g. "gpt-4o", "gemini-1.5-flash").
	Model string
	// Controls randomness. A pointer distinguishes an explicit 0.0
	// (deterministic, used by the city extractor) from an unset value.
	Temperature *float32
	// The maximum number of tokens to generate in the response.
	MaxTokens int
	// Nucleus sampling, an alternative to temperature.
	TopP *float32
}

// Usage holds token accounting reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates usage across the calls of a multi-step exchange.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// GenerationResult holds the complete output of one completion call.
type GenerationResult struct {
	// The generated text content from the model.
	Content string
	// Tool calls requested by the model. Models can request several
	// tools in one turn, so this is a slice.
	ToolCalls []*tools.ToolCall
	// Token usage for this call.
	Usage Usage
}

// Client is the interface every model provider implements. The caller
// passes the full ordered transcript plus any tool schemas the model is
// allowed to invoke; the provider returns either direct text or a set of
// tool-call requests.
type Client interface {
	Generate(
		ctx context.Context,
		messages []Message,
		config *GenerationConfig,
		availableTools []tools.Tool,
	) (*GenerationResult, error)
}
