package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/nmehta-dev/weatherchat/internal/weather"
)

// WeatherFetcher is the slice of the weather client the tool needs.
type WeatherFetcher interface {
	Fetch(ctx context.Context, city string) (*weather.Snapshot, error)
}

// WeatherTool exposes current-conditions lookup to the model as the
// get_current_weather function.
type WeatherTool struct {
	fetcher WeatherFetcher
}

var _ Executor = (*WeatherTool)(nil)

func NewWeatherTool(fetcher WeatherFetcher) *WeatherTool {
	return &WeatherTool{fetcher: fetcher}
}

// Definition describes the tool to the LLM.
func (wt *WeatherTool) Definition() Tool {
	return NewFunctionTool(
		"get_current_weather",
		"Get current weather information for a specific city",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"city": {
					Type:        "string",
					Description: "The city name to get weather data for",
				},
			},
			Required: []string{"city"},
		},
	)
}

// Execute fetches the weather for the city the model asked about. The
// result is always a JSON payload: the provider's raw snapshot on success,
// or an error object naming the city on failure. Malformed arguments also
// degrade to an error payload so the model can recover in its final turn.
func (wt *WeatherTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args struct {
		City string `json:"city"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		log.Printf("Error parsing weather tool arguments: %v", err)
		return errorPayload("invalid arguments for get_current_weather"), nil
	}
	if args.City == "" {
		return errorPayload("city cannot be empty"), nil
	}

	snapshot, err := wt.fetcher.Fetch(ctx, args.City)
	if err != nil {
		return errorPayload(fmt.Sprintf("Could not fetch weather data for %s", args.City)), nil
	}
	return string(snapshot.Raw), nil
}

func errorPayload(message string) string {
	payload, _ := json.Marshal(map[string]string{"error": message})
	return string(payload)
}
