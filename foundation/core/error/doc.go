// Package error provides the structured error type used across werktag.
//
// Package: error
// Title: werktag Error Handling
// Description: Coded errors with severity, details and the failing operation.
//              The business-time engine reports iteration-limit exhaustion,
//              invalid configuration and degenerate ranges through this type;
//              holiday providers use it for storage and network failures.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-19 v0.2.0: Reduced to the codes of the business-time engine
//
// Usage:
//   import wterror "github.com/msto63/werktag/foundation/core/error"
//
//   err := wterror.New("precision must be positive").
//     WithCode(wterror.CodeInvalidConfig).
//     WithDetail("precision", d)
//
//   if wterror.HasCode(err, wterror.CodeIterationLimit) {
//     // raise the limit or fix the constraint set
//   }
package error
