// ============================================================================
// werktag - Business Time Engine
// ============================================================================
//
// Package:     version
// Description: Central version management for the library and CLI
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants for werktag components
const (
	// Platform version
	Platform = "0.3.0"

	// Component versions
	Engine   = "0.3.0"
	Holidays = "0.2.0"
	CLI      = "0.3.0"
)

// Set at build time via -ldflags "-X github.com/msto63/werktag/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "engine":
		return Engine
	case "holidays":
		return Holidays
	case "cli":
		return CLI
	default:
		return Platform
	}
}

// String returns a one-line version summary
func String() string {
	return fmt.Sprintf("werktag %s (engine %s, commit %s, built %s)", Platform, Engine, Commit, BuildDate)
}
