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


// Package ai provides abstractions for the AI capabilities the assistant
// consumes.
//
// This package defines interfaces for text embedding and answer generation.
// It follows the dependency inversion principle, allowing the retrieval and
// conversation logic to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - Generator: Produces a candidate answer from an assembled prompt
//   - Provider: Aggregates AI services for convenient initialization
//
// Generator output is treated as untrusted everywhere: it only reaches a
// caller after passing the guard pipeline.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction. Mock constructors return concrete
// types to enable test assertions and behavior injection.
//
// # Retry Policy
//
// Transient provider failures are retried at the point of call with
// exponential backoff and jitter (see Retry and CalculateBackoff); the retry
// budget comes from Config.MaxRetries and Config.RetryDelay. Only exhausted
// retries surface to callers.
package ai
