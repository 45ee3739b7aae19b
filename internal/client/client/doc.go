// Package client is the session transport of govadmin: the HTTP client of
// the admin REST API.
//
// # Overview
//
// HTTPClient keeps the session cookie set by POST /Auth/login in a cookie
// jar, so application code never sees the authority token. Every request
// passes through one round tripper which stamps a request id, applies the
// optional rate limit and, on HTTP 401, calls the authority-loss handler
// registered with OnAuthorityLost. The handler receives the credential
// store generation that was current when the request was issued.
//
// # Error Handling
//
// Responses are mapped once, at this boundary, to sentinel errors callers
// match with errors.Is: ErrAuthorityLost (401), ErrForbidden (403),
// ErrNotFound (404), ErrAccountLocked (423), ErrValidationFailed via
// *ValidationError (400/422), ErrTimeout and ErrUnavailable. A 403 never
// triggers the authority-loss handler.
//
// Every request runs under the fixed Options.Timeout budget.
package client
