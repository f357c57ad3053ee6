// Package store provides RecordStore implementations for the coordination
// core.
//
// NATS is the production store: each entity table lives in a NATS JetStream
// KeyValue bucket, records are JSON, conditional writes use revision-guarded
// updates, and change feeds map KV watchers onto row-level events.
//
// Memory is an in-process store with the same semantics, used by tests,
// examples, and offline-capable callers.
package store
