// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package models

// Page is the pagination envelope the API wraps list responses in.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// HasNext reports whether more pages follow this one.
func (p Page[T]) HasNext() bool {
	if p.PerPage <= 0 {
		return false
	}
	return p.Page*p.PerPage < p.Total
}

// TotalPages returns the number of pages implied by Total and PerPage.
func (p Page[T]) TotalPages() int {
	if p.PerPage <= 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}
