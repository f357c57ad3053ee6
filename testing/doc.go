// Package testing provides helpers for tests that exercise the NATS-backed
// storage and sync paths: an embedded JetStream-enabled NATS server and a
// types.Logger that writes through *testing.T.
package testing
