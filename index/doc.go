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


// Package index provides an in-memory vector index over catalog records.
//
// An Index is an immutable snapshot: Build constructs one from a full
// catalog (embedding records concurrently, all-or-nothing), Add derives a
// new snapshot with one extra record, and Search scans without locks.
// Handle holds the snapshot readers use and swaps it atomically on catalog
// refresh, so searches never block on a rebuild.
//
// Every scan iterates an ID-sorted entry slice and ties are broken by
// ascending record ID, so a fixed snapshot and query vector always produce
// the same ordered result.
//
// Snapshots can be persisted with Save/Load; the wire format carries a
// content fingerprint and round-trips to identical search results.
package index
