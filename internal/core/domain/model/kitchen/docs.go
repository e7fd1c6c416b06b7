// Package kitchen holds what a kitchen display knows about orders: tickets made of
// display groups, the events broadcast when orders are placed or change status, and
// the paginated queue of active and completed tickets.
//
// Payloads from the bootstrap endpoint and the live stream are parsed leniently.
// Several historical item shapes are accepted and anything malformed is skipped
// instead of failing the whole payload.
package kitchen
