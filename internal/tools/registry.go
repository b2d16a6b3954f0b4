package tools

import (
	"context"
	"fmt"
)

// Registry holds the set of tools the chat pipeline may execute.
type Registry struct {
	tools map[string]Executor
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Executor),
	}
}

// Register adds a tool to the registry, keyed by its declared function name.
func (r *Registry) Register(tool Executor) {
	name := tool.Definition().Function.Name
	r.tools[name] = tool
}

// Definitions returns the schemas of all registered tools.
func (r *Registry) Definitions() []Tool {
	defs := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		defs = append(defs, tool.Definition())
	}
	return defs
}

// Execute runs a tool by name with the given arguments.
func (r *Registry) Execute(ctx context.Context, name, arguments string) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("tool '%s' not found", name)
	}
	return tool.Execute(ctx, arguments)
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	return len(r.tools)
}
