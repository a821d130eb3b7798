// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package managers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gridapi/internal/client"
	"gridapi/internal/config"
	"gridapi/internal/models"
	"gridapi/internal/query"
)

func newStudiesManager(t *testing.T, handler http.Handler) *StudiesManager {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := client.New(config.Connection{BaseURL: server.URL, Token: "tok"}, 5*time.Second)
	return NewStudiesManager(c)
}

func writePage(t *testing.T, w http.ResponseWriter, page models.Page[models.Study]) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(page))
}

func makeStudies(start, count int) []models.Study {
	studies := make([]models.Study, 0, count)
	for i := start; i < start+count; i++ {
		studies = append(studies, models.Study{
			ID:     fmt.Sprintf("st-%03d", i),
			Name:   fmt.Sprintf("study-%03d", i),
			Status: models.StudyActive,
		})
	}
	return studies
}

func TestStudiesList(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/studies", r.URL.Path)
		require.Equal(t, "eq:active", r.URL.Query().Get("filter[status]"))

		writePage(t, w, models.Page[models.Study]{
			Items:   makeStudies(1, 2),
			Total:   2,
			Page:    1,
			PerPage: 25,
		})
	}))

	page, err := mgr.List(context.Background(), query.New().Filter("status", query.Eq, "active"))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.Equal(t, 2, page.Total)
	require.Equal(t, "st-001", page.Items[0].ID)
}

func TestStudiesList_NilQuery(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		writePage(t, w, models.Page[models.Study]{})
	}))

	_, err := mgr.List(context.Background(), nil)
	require.NoError(t, err)
}

func TestStudiesListAll_SinglePage(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePage(t, w, models.Page[models.Study]{
			Items:   makeStudies(1, 3),
			Total:   3,
			Page:    1,
			PerPage: 100,
		})
	}))

	studies, err := mgr.ListAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, studies, 3)
}

func TestStudiesListAll_MultiplePagesInOrder(t *testing.T) {
	t.Parallel()

	const total = 250 // 3 pages at 100 per page

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageNum, err := strconv.Atoi(r.URL.Query().Get("page"))
		require.NoError(t, err)
		require.Equal(t, "100", r.URL.Query().Get("limit"))

		start := (pageNum-1)*100 + 1
		count := 100
		if remaining := total - (pageNum-1)*100; remaining < count {
			count = remaining
		}

		writePage(t, w, models.Page[models.Study]{
			Items:   makeStudies(start, count),
			Total:   total,
			Page:    pageNum,
			PerPage: 100,
		})
	}))

	studies, err := mgr.ListAll(context.Background(), query.New())
	require.NoError(t, err)
	require.Len(t, studies, total)

	// Pages are fetched concurrently but must be reassembled in order.
	for i, st := range studies {
		require.Equal(t, fmt.Sprintf("st-%03d", i+1), st.ID)
	}
}

func TestStudiesListAll_PageFailure(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"code": "bad", "message": "bad page"}}`))
			return
		}
		writePage(t, w, models.Page[models.Study]{
			Items:   makeStudies(1, 100),
			Total:   200,
			Page:    1,
			PerPage: 100,
		})
	}))

	_, err := mgr.ListAll(context.Background(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "page 2")
}

func TestStudiesListAll_CancelledMidFetch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			writePage(t, w, models.Page[models.Study]{
				Items:   makeStudies(1, 100),
				Total:   1000,
				Page:    1,
				PerPage: 100,
			})
			return
		}
		// Later pages cancel the walk and stall until the client gives up,
		// so goroutine failures and new acquisitions race on the same error.
		cancel()
		<-r.Context().Done()
	}))

	_, err := mgr.ListAll(ctx, nil)
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStudiesGet(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/studies/st-42", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(models.Study{ID: "st-42", Name: "demo"}))
	}))

	study, err := mgr.Get(context.Background(), "st-42")
	require.NoError(t, err)
	require.Equal(t, "demo", study.Name)
}

func TestStudiesGet_EmptyID(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := mgr.Get(context.Background(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be empty")
}

func TestStudiesCreate(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req models.StudyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "demo", req.Name)
		require.Equal(t, models.StudyDraft, req.Status)

		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.NewEncoder(w).Encode(models.Study{ID: "st-1", Name: req.Name, Status: req.Status}))
	}))

	study, err := mgr.Create(context.Background(), models.StudyRequest{Name: "demo", Status: models.StudyDraft})
	require.NoError(t, err)
	require.Equal(t, "st-1", study.ID)
}

func TestStudiesCreate_RequiresName(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := mgr.Create(context.Background(), models.StudyRequest{})
	require.Error(t, err)
}

func TestStudiesUpdate(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/v1/studies/st-7", r.URL.Path)

		// Partial update: unset fields must be omitted from the payload.
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		require.Equal(t, map[string]any{"status": "completed"}, raw)

		require.NoError(t, json.NewEncoder(w).Encode(models.Study{ID: "st-7", Status: models.StudyCompleted}))
	}))

	study, err := mgr.Update(context.Background(), "st-7", models.StudyRequest{Status: models.StudyCompleted})
	require.NoError(t, err)
	require.Equal(t, models.StudyCompleted, study.Status)
}

func TestStudiesDelete(t *testing.T) {
	t.Parallel()

	mgr := newStudiesManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, mgr.Delete(context.Background(), "st-9"))
}
