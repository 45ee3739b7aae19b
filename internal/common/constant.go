// Package common contains shared constants and helpers used across
// govadmin components.
package common

// RequestIDHeaderName is the HTTP header carrying a per-request identifier
// on outbound calls to the admin API.
const RequestIDHeaderName = "X-Request-ID"

// CredentialRecordKey is the single well-known storage key under which the
// authenticated identity is persisted for display purposes.
const CredentialRecordKey = "credential_record"

// AppName is used for default file names and environment prefixes.
const AppName = "govadmin"
