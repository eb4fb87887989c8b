package ai

import "errors"

var (
	// ErrEmbedding indicates the embedding provider failed or timed out
	// after all retries.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the generation provider failed or timed out
	// after all retries.
	ErrGeneration = errors.New("generation failed")

	// ErrEmptyCompletion indicates the provider returned no usable output.
	ErrEmptyCompletion = errors.New("empty completion")
)
