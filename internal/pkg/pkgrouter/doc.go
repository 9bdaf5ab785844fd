// Package pkgrouter is the HTTP edge of the service.
//
// Handlers return a payload or an error; the router turns payloads into the
// {"message", "data", "meta"} envelope and *pkgerror.Error values into status
// codes. Every route runs behind recovery, correlation ID and request logging.
package pkgrouter
