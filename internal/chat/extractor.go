package chat

import (
	"context"
	"log"
	"strings"

	"github.com/nmehta-dev/weatherchat/internal/llm"
)

const extractorInstruction = "Extract only the city name from the given text. Return only the city name without any additional text. If no city is mentioned, return 'None'."

// CityExtractor asks the model to pull a bare city name out of free text.
type CityExtractor struct {
	client llm.Client
	model  string
}

func NewCityExtractor(client llm.Client, model string) *CityExtractor {
	return &CityExtractor{client: client, model: model}
}

// ExtractCity returns the city mentioned in the message, or ok=false when
// none is mentioned or the model call fails. Sampling is deterministic to
// keep extraction consistent.
func (e *CityExtractor) ExtractCity(ctx context.Context, message string) (string, bool) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: extractorInstruction},
		{Role: llm.RoleUser, Content: message},
	}
	config := &llm.GenerationConfig{
		Model:       e.model,
		Temperature: floatPtr(0),
		MaxTokens:   50,
	}

	result, err := e.client.Generate(ctx, messages, config, nil)
	if err != nil {
		log.Printf("Error extracting city: %v", err)
		return "", false
	}

	city := strings.TrimSpace(result.Content)
	if city == "" || strings.EqualFold(city, "none") {
		return "", false
	}
	return city, true
}
