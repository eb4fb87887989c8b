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


package index

import "errors"

var (
	// ErrBuildFailed indicates the index build failed; no partial index is
	// left behind.
	ErrBuildFailed = errors.New("index build failed")

	// ErrEmptyIndex indicates a search against an index with no entries.
	ErrEmptyIndex = errors.New("index is empty")

	// ErrInvalidLimit indicates a non-positive k was requested.
	ErrInvalidLimit = errors.New("limit must be positive")

	// ErrDimensionMismatch indicates a vector whose dimension differs from
	// the index's fixed dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCorruptSnapshot indicates persisted index bytes failed integrity
	// or format checks.
	ErrCorruptSnapshot = errors.New("corrupt index snapshot")
)
