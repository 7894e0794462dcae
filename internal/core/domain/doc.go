// Package domain defines the core domain models for LiveWatch.
//
// Domain models are pure value objects without any IO dependencies
// or framework coupling. This package contains:
//
//   - Session: One recording run against a single live room
//   - Events: Decoded audience events (chat, gift, member, like, follow, viewer count)
//   - Aggregate: The accumulated session statistics a snapshot captures
//   - Errors: Domain-specific error definitions
//
// All user identifiers are carried as strings: the remote platform
// issues 64-bit ids that exceed 2^53, and downstream JSON consumers
// would silently lose precision on numeric encoding.
//
// @req RQ-0101
// @design DS-0101
package domain
