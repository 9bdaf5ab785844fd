// Package pkgws broadcasts server-side notifications to websocket clients.
//
// A Hub owns the set of connected clients. Its Run loop serializes
// register, unregister and broadcast so that no lock is held while writing
// to a connection; each client drains its own buffered send queue in a
// write pump and is dropped when the queue overflows.
package pkgws
