package tools

import "context"

// Executor is the interface every runnable tool implements. Registering
// executors with the Registry lets the tool pipeline run whatever the model
// asks for without knowing each tool's implementation.
type Executor interface {
	// Definition returns the schema declared to the LLM.
	Definition() Tool

	// Execute runs the tool. It receives the arguments as the JSON string
	// the model generated and returns a string payload that is sent back
	// to the model as the tool result.
	Execute(ctx context.Context, arguments string) (string, error)
}
