package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/nmehta-dev/weatherchat/internal/llm"
	"github.com/nmehta-dev/weatherchat/internal/tools"
)

// maxToolRounds bounds the generate/execute loop so a model that keeps
// requesting tools cannot spin forever.
const maxToolRounds = 5

// ToolPipeline is the function-calling variant: the model itself decides
// whether a message needs weather data and for which city, via the declared
// get_current_weather tool. Removing the keyword gate and the separate
// extraction call costs one extra model round trip, but only when a tool is
// actually invoked.
type ToolPipeline struct {
	client   llm.Client
	model    string
	registry *tools.Registry
}

var _ Pipeline = (*ToolPipeline)(nil)

func NewToolPipeline(client llm.Client, model string, registry *tools.Registry) *ToolPipeline {
	return &ToolPipeline{
		client:   client,
		model:    model,
		registry: registry,
	}
}

// Respond sends the message with the tool schemas attached, executes any
// requested tools, and feeds the results back for the final answer. A direct
// answer on the first round is returned unchanged. Faults degrade to a fixed
// apology so exactly one reply is always produced.
func (p *ToolPipeline) Respond(ctx context.Context, message string) string {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: ToolSystemPrompt},
		{Role: llm.RoleUser, Content: message},
	}
	config := &llm.GenerationConfig{Model: p.model}

	for i := 0; i < maxToolRounds; i++ {
		result, err := p.client.Generate(ctx, messages, config, p.registry.Definitions())
		if err != nil {
			log.Printf("Error processing message: %v", err)
			return processingApology
		}

		if len(result.ToolCalls) == 0 {
			return result.Content
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   result.Content,
			ToolCalls: result.ToolCalls,
		})
		for _, toolCall := range result.ToolCalls {
			log.Printf("Executing tool %s (ID: %s) with args: %s", toolCall.Function.Name, toolCall.ID, toolCall.Function.Arguments)
			toolResult, err := p.registry.Execute(ctx, toolCall.Function.Name, toolCall.Function.Arguments)
			if err != nil {
				toolResult = fmt.Sprintf(`{"error": "Error executing tool %s: %v"}`, toolCall.Function.Name, err)
			}
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: toolCall.ID,
				Content:    toolResult,
			})
		}
	}

	log.Printf("Exceeded %d tool rounds without a final answer", maxToolRounds)
	return processingApology
}
