// Package pkgerror holds the error values that cross layer boundaries.
//
// Stores return the sentinels ErrNotFound and ErrConflict. Use cases turn
// them into *Error values whose Code decides the HTTP status at the router,
// and whose Fields carry per-field validation messages.
package pkgerror
