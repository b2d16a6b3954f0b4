// Package chat contains the message-routing pipelines that turn one
// incoming user message into exactly one outgoing reply.
package chat

import (
	"context"

	"github.com/nmehta-dev/weatherchat/internal/weather"
)

// Pipeline processes one user message and produces the reply text. It never
// returns an error: every internal fault degrades to a user-facing string so
// the connection handler always has exactly one reply to send.
type Pipeline interface {
	Respond(ctx context.Context, message string) string
}

// WeatherFetcher is the slice of the weather client the pipelines need.
type WeatherFetcher interface {
	Fetch(ctx context.Context, city string) (*weather.Snapshot, error)
}

// SystemPrompt steers the model toward weather-focused, polite responses in
// the keyword pipeline, where weather data is injected into the prompt.
const SystemPrompt = `You are a friendly and helpful weather assistant. Your primary focus is on weather-related information and queries.
You can engage in basic greetings and pleasantries, but always try to steer the conversation towards weather-related topics.
If a user asks about non-weather topics, politely explain that you're a weather specialist and can only help with weather-related queries.
When users ask about weather, use the provided real-time weather data in your responses.`

// ToolSystemPrompt is the variant for the tool pipeline, where the model
// fetches weather data itself through function calling.
const ToolSystemPrompt = `You are a friendly and helpful weather assistant. Your primary focus is on weather-related information and queries.
You can engage in basic greetings and pleasantries, but always try to steer the conversation towards weather-related topics.
Use the available functions to fetch real-time weather data when needed.`

const (
	synthesizerApology = "I apologize, but I'm having trouble generating a response. Could you please try again?"
	processingApology  = "I apologize, but I'm having trouble processing your request. Could you please try again?"
	cityClarification  = "I'm not sure which city you're asking about. Could you please specify a city name?"
	weatherNotFound    = "I'm sorry, but I couldn't find weather data for %s. Could you please check the city name and try again?"
)

// DefaultKeywords is the gate for the keyword pipeline: a message matching
// none of these is treated as general conversation.
var DefaultKeywords = []string{
	"weather", "temperature", "rain", "wind", "humid", "forecast",
	"climate", "cold", "hot", "celsius", "fahrenheit",
}

func floatPtr(v float32) *float32 { return &v }
