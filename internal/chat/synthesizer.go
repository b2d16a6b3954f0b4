package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/nmehta-dev/weatherchat/internal/llm"
	"github.com/nmehta-dev/weatherchat/internal/weather"
)

// Synthesizer turns a user message, optionally augmented with fetched
// weather data, into a conversational reply.
type Synthesizer struct {
	client llm.Client
	model  string
}

func NewSynthesizer(client llm.Client, model string) *Synthesizer {
	return &Synthesizer{client: client, model: model}
}

// Synthesize generates the reply. A nil snapshot means general conversation
// with no weather context. A provider fault degrades to a fixed apology.
func (s *Synthesizer) Synthesize(ctx context.Context, message string, snapshot *weather.Snapshot) string {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: buildContext(message, snapshot)},
	}
	config := &llm.GenerationConfig{
		Model:       s.model,
		Temperature: floatPtr(0.7),
		MaxTokens:   150,
	}

	result, err := s.client.Generate(ctx, messages, config, nil)
	if err != nil {
		log.Printf("Error generating response: %v", err)
		return synthesizerApology
	}
	return strings.TrimSpace(result.Content)
}

// buildContext assembles the user turn: the raw message, plus a fixed-format
// field listing when weather data is present.
func buildContext(message string, snapshot *weather.Snapshot) string {
	var b strings.Builder
	b.WriteString("User message: ")
	b.WriteString(message)
	b.WriteString("\n")
	if snapshot != nil {
		fmt.Fprintf(&b, `
Current weather data:
City: %s
Country: %s
Temperature: %.1f°C (%.1f°F)
Condition: %s
Humidity: %d%%
Wind: %.1f km/h
Last Updated: %s
`,
			snapshot.City, snapshot.Country, snapshot.TempC, snapshot.TempF,
			snapshot.Condition, snapshot.Humidity, snapshot.WindKPH, snapshot.LastUpdated)
	}
	return b.String()
}
