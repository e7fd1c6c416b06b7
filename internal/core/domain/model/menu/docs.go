// Package menu describes what can be ordered and what it costs.
//
// A Catalog is the read-only menu: recipes keyed by id, the quota rules of every
// Category and the PriceBook holding base fees, entree surcharges and the size
// tables used by a-la-carte, appetizer and drink items. The default catalog is
// embedded in the binary; deployments may replace it with their own JSON document.
package menu
