// Package statussync keeps distributed client sessions consistent.
//
// The Service subscribes to the record store's change feeds and fans events
// out to local listeners, broadcasts refresh signals after bulk mutations so
// sessions reconcile in one round trip, and queues outbound mutation intents
// while offline, replaying them strictly in FIFO order on reconnect with
// at-least-once semantics.
//
// The service is an explicit instance with a managed lifecycle: construct it
// once at startup, pass it by reference, and tear it down with Cleanup.
package statussync
