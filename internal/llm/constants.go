package llm

import "time"

// Shared across the provider clients in this package.
const (
	defaultTimeout = 120 * time.Second
)
