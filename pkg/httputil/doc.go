// Package httputil holds the JSON plumbing shared by the canvas HTTP server
// and its client.
//
// # Errors on the wire
//
// Failures travel as a JSON body carrying the coded error from pkg/errors:
//
//	{"code": "SESSION_NOT_FOUND", "error": "session not found: 42"}
//
// [WriteError] picks the status from the code (invalid input 400, not found
// 404, anything else 500) and [ReadError] turns such a response back into a
// coded error, so errors.Is works across the network.
//
// # Retry
//
// [Retry] repeats an operation with exponential backoff while it fails with
// a [RetryableError]. The client marks network errors and 5xx responses
// retryable; 4xx responses are returned immediately.
package httputil
