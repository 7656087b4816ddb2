package driven

import "context"

// LLMService provides language model operations for answering questions
// over retrieved context.
//
// Implementations may include:
//   - Ollama (local models)
//   - LM Studio (local inference server)
type LLMService interface {
	// Ask produces a grounded answer for a question. The contextBlock is
	// appended to the prompt when non-blank; system overrides the default
	// system instruction when non-blank. Implementations try a free-text
	// generate call first and fall back to a structured chat call when
	// generate yields blank text without erroring.
	Ask(ctx context.Context, question, contextBlock, system string) (string, error)

	// Generate produces streamed text completion from a single prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Chat conducts a streamed {system, user} exchange.
	Chat(ctx context.Context, system, user string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable without running inference.
	// Callers use it to short-circuit the pipeline before indexing.
	Ping(ctx context.Context) error
}
