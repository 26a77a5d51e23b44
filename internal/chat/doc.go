// Package chat implements the live channel: the connection registry, the
// room broadcast engine and the inbound message protocol.
//
// The registry is the only shared mutable state; a single mutex guards it
// and is never held across store I/O or socket writes. Delivery to each
// recipient goes through a per-connection writer goroutine so one slow
// client cannot delay the others.
package chat
