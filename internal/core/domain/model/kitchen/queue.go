package kitchen

import "pos/internal/core/domain/model/order"

// PageSize is the number of tickets per display page.
const PageSize = 6

// Page is one page of a filtered ticket list. Number is 1-based and always within
// [1, Count]; an empty list has a single empty page.
type Page struct {
	Orders []Order `json:"orders"`
	Number int     `json:"page"`
	Count  int     `json:"pages"`
	Total  int     `json:"total"`
}

// Queue is the ordered ticket list of one kitchen display, newest first. It is not
// safe for concurrent use.
type Queue struct {
	orders []Order
}

// Replace discards the current tickets and installs a snapshot, keeping the first
// occurrence of each id.
func (q *Queue) Replace(orders []Order) {
	seen := make(map[int]struct{}, len(orders))
	q.orders = make([]Order, 0, len(orders))
	for _, o := range orders {
		if _, dup := seen[o.ID]; dup {
			continue
		}
		seen[o.ID] = struct{}{}
		q.orders = append(q.orders, o.Clone())
	}
}

// Upsert prepends a new ticket, or updates an existing one in place without moving
// it. It reports whether the ticket was new. Empty groups never erase known ones.
func (q *Queue) Upsert(o Order) bool {
	if i := q.index(o.ID); i >= 0 {
		existing := &q.orders[i]
		if len(o.Groups) > 0 {
			existing.Groups = o.Clone().Groups
		}
		if !o.Total.IsZero() {
			existing.Total = o.Total
		}
		if !o.PlacedAt.IsZero() {
			existing.PlacedAt = o.PlacedAt
		}
		existing.Status = o.Status
		return false
	}
	q.orders = append([]Order{o.Clone()}, q.orders...)
	return true
}

// SetStatus changes the status of ticket id and reports whether it exists.
func (q *Queue) SetStatus(id int, status order.Status) bool {
	i := q.index(id)
	if i < 0 {
		return false
	}
	q.orders[i].Status = status
	return true
}

// Get returns a copy of ticket id.
func (q *Queue) Get(id int) (Order, bool) {
	i := q.index(id)
	if i < 0 {
		return Order{}, false
	}
	return q.orders[i].Clone(), true
}

// Len returns the number of tickets.
func (q *Queue) Len() int {
	return len(q.orders)
}

// Orders returns copies of all tickets.
func (q *Queue) Orders() []Order {
	out := make([]Order, len(q.orders))
	for i, o := range q.orders {
		out[i] = o.Clone()
	}
	return out
}

// Active pages through tickets that are not completed. Cancelled tickets stay
// visible here so cooks see the void.
func (q *Queue) Active(page int) Page {
	return q.page(page, func(o Order) bool { return !o.Status.IsCompleted() })
}

// Completed pages through completed tickets.
func (q *Queue) Completed(page int) Page {
	return q.page(page, func(o Order) bool { return o.Status.IsCompleted() })
}

func (q *Queue) page(number int, keep func(Order) bool) Page {
	var matched []Order
	for _, o := range q.orders {
		if keep(o) {
			matched = append(matched, o)
		}
	}

	count := (len(matched) + PageSize - 1) / PageSize
	if count == 0 {
		count = 1
	}
	number = min(max(number, 1), count)

	start := (number - 1) * PageSize
	end := min(start+PageSize, len(matched))
	orders := make([]Order, 0, end-start)
	for _, o := range matched[start:end] {
		orders = append(orders, o.Clone())
	}
	return Page{Orders: orders, Number: number, Count: count, Total: len(matched)}
}

func (q *Queue) index(id int) int {
	for i, o := range q.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}
