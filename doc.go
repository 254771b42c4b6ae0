// Package kvstore provides a thread-safe in-process key-value store with
// per-entry TTL expiration.
//
// Features:
//
//   - Generic keys and values, store handles are cheap to duplicate and share.
//   - Per-entry TTL resolved against an optional configured default.
//   - Lazy expiration: an expired entry is reclaimed by the next access that
//     observes it, no background janitor goroutines or timers are involved.
//   - Single reader/writer lock per store, sharded variant for write-heavy loads.
//   - Read-through Loader with per-key build deduplication and error caching.
//   - Mass expiration and removal (drop store), gob dump/restore.
//   - Allows logging, stats collection.
//
// Because reclamation is demand-driven, an expired entry that is never read
// again occupies memory indefinitely. If key cardinality is unbounded, drop
// the store periodically with RemoveAll or sweep it with Walk and Remove.
package kvstore
