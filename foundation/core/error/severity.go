// File: severity.go
// Title: Error Severity Levels
// Description: Severity classification used to pick the log level of an error.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with four severity levels
// - 2026-10-19 v0.2.0: Severity mapping for engine codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates caller input that was rejected
	SeverityLow Severity = iota

	// SeverityMedium indicates an operation that could not complete
	SeverityMedium

	// SeverityHigh indicates a failing dependency (database, network)
	SeverityHigh

	// SeverityCritical indicates an inconsistent internal state
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the severity level for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical
	case CodeDatabaseError, CodeExternalServiceError:
		return SeverityHigh
	case CodeIterationLimit, CodeConfigError, CodeMissingConfig:
		return SeverityMedium
	case CodeInvalidInput, CodeInvalidFormat, CodeInvalidConfig,
		CodeDegenerateRange, CodeNotFound:
		return SeverityLow
	default:
		return SeverityMedium
	}
}
