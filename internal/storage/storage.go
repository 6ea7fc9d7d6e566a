// Package storage defines the Storage interface, the durable key/value
// slot the record store persists its collection into.
//
// WHY AN INTERFACE?
// ─────────────────
// The record store should not know or care where its document lives.
// By depending only on this interface:
//
//   - Switching backends = implement the interface, change one line in
//     main.go. Zero store changes.
//
//   - Writing tests = pass a fake that satisfies the interface (and can
//     be told to fail). No real database needed for unit tests.
package storage

import "errors"

// ErrNotFound is returned by Read when nothing has ever been written
// under the requested key.
var ErrNotFound = errors.New("storage: slot not found")

// Storage is the durable slot contract.
//
// Each key names one slot holding one opaque document. Write replaces the
// whole document atomically; a reader sees either the old or the new one.
type Storage interface {
	// Read returns the document stored under key, or ErrNotFound.
	Read(key string) ([]byte, error)

	// Write stores doc under key, replacing any previous document.
	Write(key string, doc []byte) error

	// Close releases the underlying resources.
	Close() error
}
