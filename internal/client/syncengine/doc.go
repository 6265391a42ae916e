// Package syncengine owns the in-memory log collection and keeps it in step
// with the local store and the remote store.
//
// Writes are optimistic: Add and Delete change memory and the local store
// first, notify observers, and only then talk to the server. Remote failures
// are logged and never returned; records that failed to upload stay marked
// unsynced and are pushed by the next reconciliation.
//
// Reconciliation runs at most once per identity. SetIdentity bumps a
// generation counter, and a pass that completes for an older generation is
// dropped. What happens after a failed pass is decided by Policy.
package syncengine
