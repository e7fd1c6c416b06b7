// Package services provides the domain services a cashier interaction session is
// built from.
//
// The package includes:
//   - PriceCalculator: prices a finalized recipe list for a category
//   - EditSession: binds the selection engine to an existing order line, writing
//     every change back and rolling accidental clears back to the last checkpoint
//   - Composer: owns the draft order of one session, committing, removing and
//     submitting lines
//
// Composer and EditSession belong to one interaction session and are not safe for
// concurrent use; callers serialize access per session.
package services
