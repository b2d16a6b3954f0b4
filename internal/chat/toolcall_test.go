package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nmehta-dev/weatherchat/internal/llm"
	"github.com/nmehta-dev/weatherchat/internal/tools"
)

func weatherCall(id, args string) *tools.ToolCall {
	return &tools.ToolCall{
		ID:   id,
		Type: tools.ToolTypeFunction,
		Function: tools.ToolCallFunction{
			Name:      "get_current_weather",
			Arguments: args,
		},
	}
}

func newWeatherRegistry(fetcher *fakeFetcher) *tools.Registry {
	registry := tools.NewRegistry()
	registry.Register(tools.NewWeatherTool(fetcher))
	return registry
}

func TestToolPipeline_DirectAnswer(t *testing.T) {
	client := &fakeLLM{steps: []llmStep{
		{result: &llm.GenerationResult{Content: "Hi! I'm a weather assistant."}},
	}}
	fetcher := &fakeFetcher{}
	pipeline := NewToolPipeline(client, "gpt-4o", newWeatherRegistry(fetcher))

	reply := pipeline.Respond(context.Background(), "hello")

	if reply != "Hi! I'm a weather assistant." {
		t.Errorf("reply = %q", reply)
	}
	if len(client.calls) != 1 {
		t.Errorf("llm calls = %d, want 1", len(client.calls))
	}
	if len(fetcher.cities) != 0 {
		t.Errorf("fetcher invoked without a tool call: %v", fetcher.cities)
	}
	// The tool schema must be declared on every round.
	if len(client.calls[0].tools) != 1 || client.calls[0].tools[0].Function.Name != "get_current_weather" {
		t.Errorf("declared tools = %+v", client.calls[0].tools)
	}
	if client.calls[0].messages[0].Content != ToolSystemPrompt {
		t.Errorf("system prompt = %q", client.calls[0].messages[0].Content)
	}
}

func TestToolPipeline_WeatherToolRoundTrip(t *testing.T) {
	client := &fakeLLM{steps: []llmStep{
		{result: &llm.GenerationResult{ToolCalls: []*tools.ToolCall{
			weatherCall("call_1", `{"city": "Paris"}`),
		}}},
		{result: &llm.GenerationResult{Content: "It's 18.5°C in Paris right now."}},
	}}
	fetcher := &fakeFetcher{snapshot: parisSnapshot()}
	pipeline := NewToolPipeline(client, "gpt-4o", newWeatherRegistry(fetcher))

	reply := pipeline.Respond(context.Background(), "what's the weather in Paris")

	if reply != "It's 18.5°C in Paris right now." {
		t.Errorf("reply = %q", reply)
	}
	if len(fetcher.cities) != 1 || fetcher.cities[0] != "Paris" {
		t.Errorf("fetched cities = %v, want [Paris]", fetcher.cities)
	}
	if len(client.calls) != 2 {
		t.Fatalf("llm calls = %d, want 2", len(client.calls))
	}

	// Second call carries the full exchange: system, user, the assistant
	// tool-call message, and the tool result correlated by call ID.
	second := client.calls[1].messages
	if len(second) != 4 {
		t.Fatalf("second call transcript length = %d, want 4", len(second))
	}
	if second[2].Role != llm.RoleAssistant || len(second[2].ToolCalls) != 1 {
		t.Errorf("third message = %+v, want assistant tool-call message", second[2])
	}
	if second[3].Role != llm.RoleTool || second[3].ToolCallID != "call_1" {
		t.Errorf("fourth message = %+v, want tool result for call_1", second[3])
	}
	if second[3].Content != string(parisSnapshot().Raw) {
		t.Errorf("tool result = %q, want the raw snapshot payload", second[3].Content)
	}
}

func TestToolPipeline_FetchFailureProducesErrorPayload(t *testing.T) {
	client := &fakeLLM{steps: []llmStep{
		{result: &llm.GenerationResult{ToolCalls: []*tools.ToolCall{
			weatherCall("call_1", `{"city": "Atlantis"}`),
		}}},
		{result: &llm.GenerationResult{Content: "I couldn't find weather for Atlantis."}},
	}}
	fetcher := &fakeFetcher{err: errors.New("status 400")}
	pipeline := NewToolPipeline(client, "gpt-4o", newWeatherRegistry(fetcher))

	reply := pipeline.Respond(context.Background(), "weather in Atlantis")

	if reply != "I couldn't find weather for Atlantis." {
		t.Errorf("reply = %q", reply)
	}

	toolMsg := client.calls[1].messages[3]
	var payload map[string]string
	if err := json.Unmarshal([]byte(toolMsg.Content), &payload); err != nil {
		t.Fatalf("tool result is not JSON: %q", toolMsg.Content)
	}
	if !strings.Contains(payload["error"], "Atlantis") {
		t.Errorf("error payload must name the city: %q", toolMsg.Content)
	}
}

func TestToolPipeline_MalformedArgumentsDegradeGracefully(t *testing.T) {
	client := &fakeLLM{steps: []llmStep{
		{result: &llm.GenerationResult{ToolCalls: []*tools.ToolCall{
			weatherCall("call_1", `{"city": `), // truncated JSON
		}}},
		{result: &llm.GenerationResult{Content: "Sorry, I couldn't look that up."}},
	}}
	fetcher := &fakeFetcher{}
	pipeline := NewToolPipeline(client, "gpt-4o", newWeatherRegistry(fetcher))

	reply := pipeline.Respond(context.Background(), "weather??")

	if reply != "Sorry, I couldn't look that up." {
		t.Errorf("reply = %q", reply)
	}
	if len(fetcher.cities) != 0 {
		t.Errorf("fetcher must not run on malformed arguments: %v", fetcher.cities)
	}
	toolMsg := client.calls[1].messages[3]
	if !strings.Contains(toolMsg.Content, "error") {
		t.Errorf("tool result = %q, want an error payload", toolMsg.Content)
	}
}

func TestToolPipeline_UnknownToolFedBackAsError(t *testing.T) {
	client := &fakeLLM{steps: []llmStep{
		{result: &llm.GenerationResult{ToolCalls: []*tools.ToolCall{
			{
				ID:   "call_1",
				Type: tools.ToolTypeFunction,
				Function: tools.ToolCallFunction{
					Name:      "get_forecast",
					Arguments: `{"city": "Paris"}`,
				},
			},
		}}},
		{result: &llm.GenerationResult{Content: "I can only fetch current weather."}},
	}}
	pipeline := NewToolPipeline(client, "gpt-4o", newWeatherRegistry(&fakeFetcher{}))

	reply := pipeline.Respond(context.Background(), "forecast for Paris")

	if reply != "I can only fetch current weather." {
		t.Errorf("reply = %q", reply)
	}
	toolMsg := client.calls[1].messages[3]
	if !strings.Contains(toolMsg.Content, "get_forecast") {
		t.Errorf("tool result = %q, want the failed tool named", toolMsg.Content)
	}
}

func TestToolPipeline_ProviderFaultDegradesToApology(t *testing.T) {
	client := &fakeLLM{steps: []llmStep{
		{err: errors.New("provider unreachable")},
	}}
	pipeline := NewToolPipeline(client, "gpt-4o", newWeatherRegistry(&fakeFetcher{}))

	reply := pipeline.Respond(context.Background(), "hello")
	if reply != processingApology {
		t.Errorf("reply = %q, want the apology string", reply)
	}
}

func TestToolPipeline_BoundedToolRounds(t *testing.T) {
	// The model keeps requesting the tool on every round.
	var steps []llmStep
	for i := 0; i < maxToolRounds; i++ {
		steps = append(steps, llmStep{result: &llm.GenerationResult{ToolCalls: []*tools.ToolCall{
			weatherCall("call_loop", `{"city": "Paris"}`),
		}}})
	}
	client := &fakeLLM{steps: steps}
	pipeline := NewToolPipeline(client, "gpt-4o", newWeatherRegistry(&fakeFetcher{snapshot: parisSnapshot()}))

	reply := pipeline.Respond(context.Background(), "weather in Paris")

	if reply != processingApology {
		t.Errorf("reply = %q, want the apology string after the round limit", reply)
	}
	if len(client.calls) != maxToolRounds {
		t.Errorf("llm calls = %d, want %d", len(client.calls), maxToolRounds)
	}
}
