// Package chat ties retrieval, generation and validation into one
// request/response cycle per user turn. The orchestrator owns the session
// table; each session is a bounded transcript of turns serialized by a
// session-scoped lock. Queries carrying personal data, fishing for
// confidential information, or matching nothing in the catalog are answered
// with varied canned responses without ever invoking the generator.
package chat
