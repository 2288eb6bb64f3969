package ai

import "context"

// Runtime is a minimal interface implemented by inference backends
// such as a local Ollama runtime or an OpenAI-compatible server.
type Runtime interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Provider identifiers used across the CLI and server for selection.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// DefaultModel is the model asked for insights when none is configured.
const DefaultModel = "mistral"
