// Package order models orders from the moment a cashier commits the first line
// until the kitchen marks them done.
//
// The package includes:
//   - Line, Snapshot and Order: the client-side draft assembled by a cashier, with
//     subtotal, tax (8.25%) and total derived from its lines
//   - Submission and Receipt: the wire form of a draft and the result of placing it
//   - PlacedOrder: the persisted aggregate root the kitchen works on
//   - Status: pending, completed or cancelled, with lenient normalization of the
//     status words kitchen displays send
package order
