// Package errs defines the error shapes returned to API clients.
//
// Every failed request is rendered as an HTTPError so clients always see
// the same JSON structure: a machine code, a human message, the status and
// optional field-level validation errors.
package errs
