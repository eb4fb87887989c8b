package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Schema describes the output shape requested from a Generator. A nil
// Schema means free-form text.
type Schema struct {
	// JSON requests the provider's structured JSON output mode.
	JSON bool

	// Instructions is appended to the prompt, describing the required shape
	// in natural language (e.g. required fields).
	Instructions string
}

// Generator produces a candidate answer from an assembled prompt.
// Generator output is untrusted: callers must validate it before use.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate invokes the language model with the given prompt and returns
	// the raw candidate text. An empty completion is an error, never an
	// empty string.
	Generate(ctx context.Context, prompt string, schema *Schema) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the answer generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
