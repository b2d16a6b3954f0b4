// Package tools defines the data structures for function calling (tool use).
// These types are a provider-agnostic representation that the llm package
// translates into the specific format each provider API expects.
package tools

// ToolTypeFunction is the standard type for function-based tools.
const ToolTypeFunction = "function"

// Tool defines the schema for a function that can be described to an LLM.
// This is what is sent *to* the model to make it aware of a tool.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function defines the name, description, and parameters of a callable tool.
// The model uses the description to decide when to invoke the tool, so it
// should be clear and specific.
type Function struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// JSONSchema is a structured representation of the JSON Schema subset used
// for tool parameters. For the top-level parameters object, Type is always
// "object".
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// ToolCall represents a request *from* the LLM to execute a tool with the
// arguments it supplied. The ID correlates the execution result back to the
// model's request in the follow-up completion call.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction holds the name and arguments of a requested function call.
// Arguments is a JSON string the executor unmarshals into its own parameter
// struct.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewFunctionTool creates a Tool with the correct "function" type set.
func NewFunctionTool(name, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
