// Copyright © 2026 The apexls authors

package logger

// Standard field names for structured logging. Use these instead of raw
// strings so log queries stay consistent across packages.
const (
	FieldComponent = "component"
	FieldMethod    = "method"
	FieldURI       = "uri"
	FieldFile      = "file"
	FieldRoot      = "root"
	FieldType      = "type"
	FieldOffset    = "offset"
	FieldPrefix    = "prefix"
	FieldCount     = "count"
	FieldError     = "error"
	FieldDuration  = "duration"
	FieldVersion   = "version"
)
