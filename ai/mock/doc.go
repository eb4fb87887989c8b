// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Generator,
// and ai.Provider for unit testing without external AI services. The default
// embedder behavior is fully deterministic (hash-derived, unit-normalized
// vectors), so retrieval and index tests are reproducible run-over-run.
//
// Custom behavior can be injected via function fields:
//
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("provider unavailable")
//	}
//
// The generator also supports scripted responses:
//
//	generator := mock.NewMockGenerator().Script("first answer", "second answer")
package mock
