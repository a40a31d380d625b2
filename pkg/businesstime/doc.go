// ============================================================================
// werktag - Business Time Engine
// ============================================================================
//
// Package:     businesstime
// Description: Business-time arithmetic, deadlines and period decomposition
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package businesstime answers questions about business time on top of a
// set of constraints: whether an instant is business time, what instant
// lies N business hours or days away, how much business time separates two
// instants, when a recurring deadline next holds, and how a range splits
// into business and non-business periods.
//
// Every operation walks time in precision-sized slots. A slot [t, t+p) is
// classified by its start instant, and slots are aligned to a grid that
// restarts at each local midnight. Every loop counts its iterations and
// fails with an ITERATION_LIMIT error once the configured limit is
// exceeded; this is the only bound on unsatisfiable constraint sets.
//
// Usage contract: a Config must not be modified while an operation that
// reads it is running. Engines are otherwise independent; several engines
// with different configurations can be used side by side.
//
// Basic usage:
//
//	engine := businesstime.New()
//	due, err := engine.AddBusinessDays(time.Now(), 2)
//
//	period, err := engine.Period(start, end)
//	for _, p := range period.NonBusinessPeriods() { ... }
package businesstime
