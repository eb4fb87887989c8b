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

package chat

import "errors"

var (
	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrGeneratorRequired is returned when a generator is not provided.
	ErrGeneratorRequired = errors.New("generator required")

	// ErrPipelineRequired is returned when a validation pipeline is not provided.
	ErrPipelineRequired = errors.New("validation pipeline required")

	// ErrSessionNotFound is returned for an unknown session ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session has been idle past its
	// time-to-live. The session is gone; the caller must start a new one.
	ErrSessionExpired = errors.New("session expired")

	// ErrGenerationFailed is returned when drafting an answer fails.
	// The provider error is wrapped as the cause.
	ErrGenerationFailed = errors.New("answer generation failed")
)
