package domain

import "math"

// Pagination defaults shared by every list operation.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxUserPageSize = 100

	// MaxOffset bounds the records skipped by any page so the skip stays
	// representable by every store.
	MaxOffset = math.MaxInt32
)

// Page is a normalized page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage floors number and limit at 1 (falling back to the defaults), clamps
// limit to maxLimit when maxLimit is positive, and caps number so the offset
// never exceeds MaxOffset.
func NewPage(number, limit, maxLimit int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if number-1 > MaxOffset/limit {
		number = MaxOffset/limit + 1
	}
	return Page{Number: number, Limit: limit}
}

// Offset is the number of records skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages is ceil(total / limit).
func (p Page) TotalPages(total int64) int {
	if p.Limit <= 0 || total <= 0 {
		return 0
	}
	limit := int64(p.Limit)
	return int((total + limit - 1) / limit)
}

// HasMore reports whether records remain after this page.
func (p Page) HasMore(returned int, total int64) bool {
	return int64(p.Offset()+returned) < total
}
