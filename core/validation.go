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

import "fmt"

// ValidateRecord validates a CatalogRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Text must not be empty
//
// NOT validated:
//   - Attributes (may be empty; free-form structured fields)
func ValidateRecord(record *CatalogRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyRecordID)
	}

	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyRecordText)
	}

	return nil
}

// ValidateRecords validates a batch of records and rejects duplicate IDs.
// The returned error identifies the first offending record.
func ValidateRecords(records []CatalogRecord) error {
	seen := make(map[string]bool, len(records))
	for i := range records {
		if err := ValidateRecord(&records[i]); err != nil {
			return err
		}
		if seen[records[i].ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateRecord, records[i].ID)
		}
		seen[records[i].ID] = true
	}
	return nil
}
