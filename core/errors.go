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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidRecord indicates a CatalogRecord failed validation.
	ErrInvalidRecord = errors.New("invalid catalog record")

	// ErrEmptyRecordID indicates the ID field is empty.
	ErrEmptyRecordID = errors.New("record id cannot be empty")

	// ErrEmptyRecordText indicates the Text field is empty.
	ErrEmptyRecordText = errors.New("record text cannot be empty")

	// ErrDuplicateRecord indicates two records in the same batch share an ID.
	ErrDuplicateRecord = errors.New("duplicate record id")
)
