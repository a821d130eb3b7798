// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package managers provides the high-level resource API on top of the raw
// HTTP client: one manager per resource, mirroring the server's REST layout.
package managers

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"gridapi/internal/client"
	"gridapi/internal/logger"
	"gridapi/internal/models"
	"gridapi/internal/query"
)

// maxConcurrentPageFetches limits parallel page requests in ListAll to avoid
// tripping the API's rate limiter.
const maxConcurrentPageFetches = 4

// listAllPageSize is the page size ListAll uses when walking all pages.
const listAllPageSize = 100

// StudiesManager accesses the /api/v1/studies resource.
type StudiesManager struct {
	client *client.Client
}

func NewStudiesManager(c *client.Client) *StudiesManager {
	return &StudiesManager{client: c}
}

// List fetches a single page of studies matching the query.
func (m *StudiesManager) List(ctx context.Context, q *query.Query) (models.Page[models.Study], error) {
	var page models.Page[models.Study]

	params, err := encodeQuery(q)
	if err != nil {
		return page, err
	}

	if err := m.client.Get(ctx, "/api/v1/studies", params, &page); err != nil {
		return page, fmt.Errorf("failed to list studies: %w", err)
	}
	return page, nil
}

// ListAll follows pagination and returns every study matching the query.
// The first page is fetched alone to learn the total; the remaining pages are
// fetched concurrently with a bounded number of requests in flight.
func (m *StudiesManager) ListAll(ctx context.Context, q *query.Query) ([]models.Study, error) {
	if q == nil {
		q = query.New()
	}

	first, err := m.List(ctx, q.WithPage(1).Limit(listAllPageSize))
	if err != nil {
		return nil, err
	}

	studies := first.Items
	totalPages := first.TotalPages()
	if totalPages <= 1 {
		return studies, nil
	}

	logger.Debug("Fetching remaining study pages", "total_pages", totalPages)

	sem := semaphore.NewWeighted(maxConcurrentPageFetches)
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error
	pages := make(map[int][]models.Study, totalPages-1)

	for pageNum := 2; pageNum <= totalPages; pageNum++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			// In-flight page goroutines also write firstErr; stay under mu.
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			defer sem.Release(1)

			page, err := m.List(ctx, q.WithPage(n).Limit(listAllPageSize))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to fetch page %d: %w", n, err)
				}
				return
			}
			pages[n] = page.Items
		}(pageNum)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	// Reassemble in page order so output is stable.
	pageNums := make([]int, 0, len(pages))
	for n := range pages {
		pageNums = append(pageNums, n)
	}
	sort.Ints(pageNums)
	for _, n := range pageNums {
		studies = append(studies, pages[n]...)
	}

	return studies, nil
}

// Get fetches a single study by ID.
func (m *StudiesManager) Get(ctx context.Context, id string) (models.Study, error) {
	var study models.Study
	if id == "" {
		return study, fmt.Errorf("study ID must not be empty")
	}
	if err := m.client.Get(ctx, "/api/v1/studies/"+id, nil, &study); err != nil {
		return study, fmt.Errorf("failed to get study %s: %w", id, err)
	}
	return study, nil
}

// Create registers a new study and returns the server's representation.
func (m *StudiesManager) Create(ctx context.Context, req models.StudyRequest) (models.Study, error) {
	var study models.Study
	if req.Name == "" {
		return study, fmt.Errorf("study name must not be empty")
	}
	if err := m.client.Post(ctx, "/api/v1/studies", req, &study); err != nil {
		return study, fmt.Errorf("failed to create study: %w", err)
	}
	return study, nil
}

// Update applies a partial update to an existing study.
func (m *StudiesManager) Update(ctx context.Context, id string, req models.StudyRequest) (models.Study, error) {
	var study models.Study
	if id == "" {
		return study, fmt.Errorf("study ID must not be empty")
	}
	if err := m.client.Patch(ctx, "/api/v1/studies/"+id, req, &study); err != nil {
		return study, fmt.Errorf("failed to update study %s: %w", id, err)
	}
	return study, nil
}

// Delete removes a study.
func (m *StudiesManager) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("study ID must not be empty")
	}
	if err := m.client.Delete(ctx, "/api/v1/studies/"+id); err != nil {
		return fmt.Errorf("failed to delete study %s: %w", id, err)
	}
	return nil
}

// encodeQuery renders a possibly-nil query into URL parameters.
func encodeQuery(q *query.Query) (url.Values, error) {
	if q == nil {
		return nil, nil
	}
	return q.Encode()
}
