// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package query builds the filter/sort/pagination parameters the Grid API
// accepts on list endpoints. A Query is assembled fluently and encoded into
// url.Values at request time:
//
//	q := query.New().
//		Filter("status", query.Eq, "active").
//		Sort("-created_at").
//		Page(2).Limit(50)
//
// encodes to filter[status]=eq:active&sort=-created_at&page=2&limit=50.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Operator is a filter comparison operator understood by the API.
type Operator string

const (
	Eq   Operator = "eq"
	Ne   Operator = "ne"
	Gt   Operator = "gt"
	Gte  Operator = "gte"
	Lt   Operator = "lt"
	Lte  Operator = "lte"
	Like Operator = "like"
	In   Operator = "in"
)

// validOperators is the set of operators the server accepts.
var validOperators = map[Operator]bool{
	Eq: true, Ne: true, Gt: true, Gte: true, Lt: true, Lte: true, Like: true, In: true,
}

// Filter is a single field comparison.
type Filter struct {
	Field    string
	Operator Operator
	Value    string
}

// Query accumulates list parameters. The zero value is usable; New is
// provided for fluent chaining.
type Query struct {
	filters []Filter
	sorts   []string
	search  string
	page    int
	limit   int
}

func New() *Query {
	return &Query{}
}

// Filter adds a field comparison. Values are joined with commas by In
// filters on the server side, so callers pass "a,b,c" for In.
func (q *Query) Filter(field string, op Operator, value string) *Query {
	q.filters = append(q.filters, Filter{Field: field, Operator: op, Value: value})
	return q
}

// Sort adds a sort key. Prefix with '-' for descending order.
func (q *Query) Sort(field string) *Query {
	if field != "" {
		q.sorts = append(q.sorts, field)
	}
	return q
}

// Search sets the free-text search term.
func (q *Query) Search(term string) *Query {
	q.search = term
	return q
}

// Page sets the 1-based page number.
func (q *Query) Page(n int) *Query {
	q.page = n
	return q
}

// Limit sets the per-page item count.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// WithPage returns a shallow copy targeting a different page. The original
// query is not modified; managers use this to walk pagination.
func (q *Query) WithPage(n int) *Query {
	clone := *q
	clone.page = n
	return &clone
}

// Encode validates the query and renders it as URL parameters.
func (q *Query) Encode() (url.Values, error) {
	values := url.Values{}

	for _, f := range q.filters {
		if strings.TrimSpace(f.Field) == "" {
			return nil, fmt.Errorf("filter field must not be empty")
		}
		if !validOperators[f.Operator] {
			return nil, fmt.Errorf("unknown filter operator '%s' for field '%s'", f.Operator, f.Field)
		}
		values.Add(fmt.Sprintf("filter[%s]", f.Field), fmt.Sprintf("%s:%s", f.Operator, f.Value))
	}

	if len(q.sorts) > 0 {
		values.Set("sort", strings.Join(q.sorts, ","))
	}
	if q.search != "" {
		values.Set("search", q.search)
	}
	if q.page > 0 {
		values.Set("page", strconv.Itoa(q.page))
	}
	if q.limit > 0 {
		values.Set("limit", strconv.Itoa(q.limit))
	}

	return values, nil
}

// IsZero reports whether the query carries no parameters at all.
func (q *Query) IsZero() bool {
	return q == nil || (len(q.filters) == 0 && len(q.sorts) == 0 && q.search == "" && q.page == 0 && q.limit == 0)
}
