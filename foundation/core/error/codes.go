// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes raised by the business-time engine and
//              the holiday providers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Engine codes (iteration limit, degenerate range)

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Engine
	CodeIterationLimit  Code = "ITERATION_LIMIT"
	CodeDegenerateRange Code = "DEGENERATE_RANGE"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Constraint sources
	CodeDatabaseError        Code = "DATABASE_ERROR"
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidFormat        Code = "INVALID_FORMAT"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeIterationLimit, CodeDegenerateRange,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeDatabaseError, CodeExternalServiceError, CodeInvalidFormat:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeIterationLimit, CodeDegenerateRange:
		return "engine"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeDatabaseError, CodeExternalServiceError:
		return "source"
	case CodeInvalidInput, CodeInvalidFormat:
		return "validation"
	default:
		return "generic"
	}
}
