// Package exports implements the NFS exports registry engine: parsing and
// serializing the line-based exports format, matching and removing entries
// by (path, client) identity, and transactionally rewriting the registry
// file with atomic replace semantics.
//
// # Architecture Overview
//
// The engine is layered from leaf to root:
//
//   - Option Codec (options.go): comma-separated option list parsing,
//     deterministic serialization, and option composition from high-level
//     export settings
//   - Entry Parser (entry.go): shell-style tokenization of one registry line
//     into (path, client, options) entries
//   - Matcher (match.go): entry lookup and removal by (path, client)
//     identity; paths compare exactly, clients case-insensitively
//   - Locked File Session (lockfile.go, session.go): registry open modes and
//     cross-process flock(2) serialization over a sidecar lock file
//   - Transactional Rewriter (rewriter.go): the read-modify-atomically-
//     replace cycle tying the layers together
//   - Manager (manager.go): the request/result contract around the rewriter
//     plus the external reload trigger boundary
//
// # Transactional Guarantees
//
// A rewrite builds the new registry in a uniquely named temp file in the
// registry's own directory and commits it with a single rename. Any reader
// observes either the complete pre-operation or the complete post-operation
// content. On any failure the temp file is deleted and the registry is left
// byte-identical to its previous state.
//
// The sidecar lock is held for the entire read, temp-write, rename sequence,
// so concurrent rewriters from separate processes serialize instead of
// overwriting each other's changes.
package exports
