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

// Package guard validates generated answers before they reach the user.
//
// Every candidate runs through a small per-turn state machine: a schema
// stage (non-empty, bounded length, no personal data, no confidential
// markers) and a grounding stage (every price, capacity, model code and
// warranty period asserted must appear in the retrieved catalog context).
// A failing candidate is repaired by re-generating with explicit violation
// feedback, bounded by a configured attempt count; exhausting the bound
// yields a final rejection rather than an unbounded retry loop.
package guard
