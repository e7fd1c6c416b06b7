// Package kernel holds the value objects shared by every part of the point-of-sale
// domain.
//
// The package includes:
//   - Money: a penny-accurate amount backed by shopspring/decimal
//   - UUID: an opaque identifier used for cashier interaction sessions
//
// Both types are immutable and safe to copy between goroutines. Zero values are
// meaningful for Money (zero dollars) and invalid for UUID, which must be built
// through one of its constructors.
package kernel
