// Package repository describes store lookups independently of the backing
// database: filters, sort order and a page window, composed from options.
package repository

import "slices"

// Operator is the comparison a Filter applies.
type Operator int

// Operator values.
const (
	Equal Operator = iota
	In
	GreaterThan
	// ContainsFold matches a case-insensitive substring of a text column.
	ContainsFold
)

// Filter restricts a lookup to rows whose column satisfies the operator.
type Filter struct {
	column string
	op     Operator
	value  any
}

// Column returns the filtered column.
func (f Filter) Column() string { return f.column }

// Operator returns the comparison.
func (f Filter) Operator() Operator { return f.op }

// Value returns the operand. For In it is a slice.
func (f Filter) Value() any { return f.value }

// Sort orders results by a column.
type Sort struct {
	column     string
	descending bool
}

// Column returns the sort column.
func (s Sort) Column() string { return s.column }

// Descending reports whether the order is reversed.
func (s Sort) Descending() bool { return s.descending }

// Query is the result of applying options.
type Query struct {
	filters []Filter
	sorts   []Sort
	limit   int
	offset  int
}

// Option modifies a Query.
type Option func(*Query)

// Build applies options in order.
func Build(options ...Option) Query {
	var q Query
	for _, opt := range options {
		opt(&q)
	}
	return q
}

// Filters returns a copy of the filters.
func (q Query) Filters() []Filter { return slices.Clone(q.filters) }

// Sorts returns a copy of the sort order.
func (q Query) Sorts() []Sort { return slices.Clone(q.sorts) }

// Limit returns the page size; 0 means unlimited.
func (q Query) Limit() int { return q.limit }

// Offset returns the number of rows skipped.
func (q Query) Offset() int { return q.offset }

func where(column string, op Operator, value any) Option {
	return func(q *Query) {
		q.filters = append(q.filters, Filter{column: column, op: op, value: value})
	}
}

// WithEqual filters on column = value.
func WithEqual(column string, value any) Option { return where(column, Equal, value) }

// WithIn filters on column IN values.
func WithIn(column string, values any) Option { return where(column, In, values) }

// WithGreaterThan filters on column > value.
func WithGreaterThan(column string, value any) Option { return where(column, GreaterThan, value) }

// WithContainsFold filters on a case-insensitive substring.
func WithContainsFold(column, substr string) Option { return where(column, ContainsFold, substr) }

// WithID filters by primary key.
func WithID(id int64) Option { return WithEqual("id", id) }

// WithOrderAsc sorts ascending by column.
func WithOrderAsc(column string) Option {
	return func(q *Query) { q.sorts = append(q.sorts, Sort{column: column}) }
}

// WithOrderDesc sorts descending by column.
func WithOrderDesc(column string) Option {
	return func(q *Query) { q.sorts = append(q.sorts, Sort{column: column, descending: true}) }
}

// WithPagination limits results to one page.
func WithPagination(limit, offset int) []Option {
	return []Option{func(q *Query) {
		q.limit = limit
		q.offset = offset
	}}
}
