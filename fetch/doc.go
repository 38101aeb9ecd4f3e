// Package fetch implements the image encoder that turns a remote artwork URL
// into the raw base64 payload sent to a critic.
//
// An [Encoder] performs one GET per call. Requests are restricted to http and
// https, and by default to public addresses. An optional TTL cache keyed by URL
// can be enabled with [WithCache].
package fetch
