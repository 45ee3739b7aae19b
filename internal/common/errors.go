// Package common defines shared constants and sentinel errors used across
// client layers of govadmin. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Configuration errors.
	ErrUnknownStoreDriver = errors.New("unknown store driver")
	ErrUnknownLogFormat   = errors.New("unknown log format")
)
