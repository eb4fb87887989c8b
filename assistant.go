// Copyright 2026 CoolTech Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fridgebot is a retrieval-grounded sales assistant for a
// refrigerator catalog. The Assistant wires the catalog store, the vector
// index, retrieval, generation and answer validation into a single facade.
package fridgebot

import (
	"context"
	"log/slog"

	"github.com/cooltech/fridgebot/ai"
	"github.com/cooltech/fridgebot/ai/openai"
	"github.com/cooltech/fridgebot/catalog"
	"github.com/cooltech/fridgebot/chat"
	"github.com/cooltech/fridgebot/core"
	"github.com/cooltech/fridgebot/guard"
	"github.com/cooltech/fridgebot/index"
	"github.com/cooltech/fridgebot/retrieval"
)

// Assistant owns every component of the conversation stack. The index
// handle is the only piece swapped at runtime; everything else is fixed at
// construction.
type Assistant struct {
	store        *catalog.Store
	provider     ai.Provider
	handle       *index.Handle
	retriever    *retrieval.Retriever
	pipeline     *guard.Pipeline
	orchestrator *chat.Orchestrator
	logger       *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig       *ai.Config
	provider       ai.Provider
	inMemory       bool
	retrievalOpts  []retrieval.Option
	guardOpts      []guard.Option
	chatOpts       []chat.Option
}

// WithAIConfig sets the AI provider configuration.
// Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithProvider injects a ready-made provider instead of constructing the
// OpenAI-compatible one. Tests use this with mocks.
func WithProvider(provider ai.Provider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps the catalog store in memory, ignoring the path.
func WithInMemory() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// WithRetrievalOptions forwards options to the retriever.
func WithRetrievalOptions(opts ...retrieval.Option) AssistantOption {
	return func(o *assistantOptions) {
		o.retrievalOpts = append(o.retrievalOpts, opts...)
	}
}

// WithGuardOptions forwards options to the validation pipeline.
func WithGuardOptions(opts ...guard.Option) AssistantOption {
	return func(o *assistantOptions) {
		o.guardOpts = append(o.guardOpts, opts...)
	}
}

// WithChatOptions forwards options to the conversation orchestrator.
func WithChatOptions(opts ...chat.Option) AssistantOption {
	return func(o *assistantOptions) {
		o.chatOpts = append(o.chatOpts, opts...)
	}
}

// NewAssistant opens the catalog store at filePath and wires the full
// stack. The index starts empty; call RefreshCatalog or LoadIndex before
// expecting in-scope answers.
func NewAssistant(filePath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := catalog.OpenStore(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	handle := index.NewHandle(nil)

	retriever, err := retrieval.NewRetriever(handle, provider.Embedder(), options.retrievalOpts...)
	if err != nil {
		provider.Close()
		store.Close()
		return nil, err
	}

	pipeline, err := guard.NewPipeline(provider.Generator(), options.guardOpts...)
	if err != nil {
		provider.Close()
		store.Close()
		return nil, err
	}

	orchestrator, err := chat.NewOrchestrator(retriever, provider.Generator(), pipeline, options.chatOpts...)
	if err != nil {
		provider.Close()
		store.Close()
		return nil, err
	}

	return &Assistant{
		store:        store,
		provider:     provider,
		handle:       handle,
		retriever:    retriever,
		pipeline:     pipeline,
		orchestrator: orchestrator,
		logger:       slog.Default().With("component", "assistant"),
	}, nil
}

// Chat handles one user turn for the session.
func (a *Assistant) Chat(ctx context.Context, sessionID, query string) (*chat.TurnResult, error) {
	return a.orchestrator.HandleTurn(ctx, sessionID, query)
}

// RefreshCatalog replaces the stored catalog wholesale, rebuilds the vector
// index from it, and swaps the new snapshot in. In-flight searches keep the
// old snapshot until they finish; failures leave both the previous catalog
// and the previous index serving.
func (a *Assistant) RefreshCatalog(ctx context.Context, records []core.CatalogRecord) error {
	if err := a.store.ReplaceAll(ctx, records); err != nil {
		return err
	}
	return a.RebuildIndex(ctx)
}

// RebuildIndex rebuilds the index from the stored catalog and swaps it in.
func (a *Assistant) RebuildIndex(ctx context.Context) error {
	records, err := a.store.All(ctx)
	if err != nil {
		return err
	}

	idx, err := index.Build(ctx, records, a.provider.Embedder())
	if err != nil {
		return err
	}

	a.handle.Swap(idx)
	a.logger.Info("index rebuilt", "records", idx.Len(), "dimension", idx.Dimension())
	return nil
}

// SaveIndex serializes the current index snapshot.
func (a *Assistant) SaveIndex() ([]byte, error) {
	return index.Save(a.handle.Load())
}

// LoadIndex restores a snapshot produced by SaveIndex and swaps it in.
func (a *Assistant) LoadIndex(bs []byte) error {
	idx, err := index.Load(bs)
	if err != nil {
		return err
	}
	a.handle.Swap(idx)
	a.logger.Info("index loaded", "records", idx.Len(), "dimension", idx.Dimension())
	return nil
}

// Stats summarizes the stored catalog.
func (a *Assistant) Stats(ctx context.Context) (*catalog.Stats, error) {
	return a.store.Stats(ctx)
}

// Transcript returns the session's turns in admission order.
func (a *Assistant) Transcript(sessionID string) ([]core.Turn, error) {
	return a.orchestrator.Transcript(sessionID)
}

// EndSession destroys one session.
func (a *Assistant) EndSession(sessionID string) error {
	return a.orchestrator.EndSession(sessionID)
}

// ResetSessions clears every session and the response history.
func (a *Assistant) ResetSessions() {
	a.orchestrator.Reset()
}

// Catalog exposes the underlying store.
func (a *Assistant) Catalog() *catalog.Store {
	return a.store
}

// Close releases the provider and the catalog store.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing catalog store", "err", err)
		return err
	}
	return nil
}
