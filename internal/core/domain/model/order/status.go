package order

import (
	"fmt"
	"strings"

	"pos/internal/pkg/errs"
)

// Status is the kitchen state of a placed order.
//
// State transitions:
//
//	Pending <──toggle──> Completed
//	   │
//	   └──> Cancelled ──toggle──> Completed
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Pending orders are still being prepared.
	Pending

	// Completed orders have been handed out.
	Completed

	// Cancelled orders were voided and will not be prepared.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "pending",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// completion and cancellation synonyms accepted from kitchen displays.
var (
	completedWords = map[string]struct{}{
		"done": {}, "completed": {}, "complete": {}, "ready": {}, "fulfilled": {},
	}
	cancelledWords = map[string]struct{}{
		"cancelled": {}, "canceled": {}, "cancel": {}, "void": {}, "voided": {}, "rejected": {},
	}
)

// NormalizeStatus maps any status word to Pending, Completed or Cancelled.
// Matching ignores case and surrounding space; empty and unrecognized input is
// Pending.
//
// Example:
//
//	order.NormalizeStatus("Done")    // Completed
//	order.NormalizeStatus("VOIDED")  // Cancelled
//	order.NormalizeStatus("")        // Pending
func NormalizeStatus(s string) Status {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := completedWords[key]; ok {
		return Completed
	}
	if _, ok := cancelledWords[key]; ok {
		return Cancelled
	}
	return Pending
}

// ParseStatus reads a canonical status name as stored in the database.
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lower-case wire name.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsCompleted reports whether s is Completed.
func (s Status) IsCompleted() bool {
	return s == Completed
}

// Toggle returns the status a kitchen toggle moves to: Completed orders go back to
// Pending, everything else is completed.
func (s Status) Toggle() Status {
	if s == Completed {
		return Pending
	}
	return Completed
}
