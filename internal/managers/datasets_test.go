// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package managers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gridapi/internal/client"
	"gridapi/internal/config"
	"gridapi/internal/models"
)

func newDatasetsManager(t *testing.T, handler http.Handler) *DatasetsManager {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := client.New(config.Connection{BaseURL: server.URL, Token: "tok"}, 5*time.Second)
	return NewDatasetsManager(c)
}

func TestDatasetsList(t *testing.T) {
	t.Parallel()

	mgr := newDatasetsManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/studies/st-1/datasets", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(models.Page[models.Dataset]{
			Items: []models.Dataset{
				{ID: "ds-1", StudyID: "st-1", Name: "baseline.csv"},
				{ID: "ds-2", StudyID: "st-1", Name: "followup.csv"},
			},
			Total: 2, Page: 1, PerPage: 25,
		}))
	}))

	datasets, err := mgr.List(context.Background(), "st-1")
	require.NoError(t, err)
	require.Len(t, datasets, 2)
	require.Equal(t, "baseline.csv", datasets[0].Name)
}

func TestDatasetsList_EmptyStudyID(t *testing.T) {
	t.Parallel()

	mgr := newDatasetsManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := mgr.List(context.Background(), "")
	require.Error(t, err)
}

func TestDatasetsGet(t *testing.T) {
	t.Parallel()

	mgr := newDatasetsManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/datasets/ds-5", r.URL.Path)
		require.NoError(t, json.NewEncoder(w).Encode(models.Dataset{
			ID: "ds-5", Name: "vitals.parquet", SizeBytes: 1024,
		}))
	}))

	dataset, err := mgr.Get(context.Background(), "ds-5")
	require.NoError(t, err)
	require.Equal(t, "vitals.parquet", dataset.Name)
}

func TestDatasetsDownload_VerifiesChecksum(t *testing.T) {
	t.Parallel()

	content := []byte("patient_id,visit,heart_rate\n1,1,72\n1,2,74\n")
	sum := sha256.Sum256(content)

	mgr := newDatasetsManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/datasets/ds-1/download", r.URL.Path)
		_, _ = w.Write(content)
	}))

	destPath := filepath.Join(t.TempDir(), "vitals.csv")
	dataset := models.Dataset{ID: "ds-1", SHA256: hex.EncodeToString(sum[:])}

	var sawProgress bool
	err := mgr.Download(context.Background(), dataset, destPath, func(written, total int64) {
		sawProgress = true
	})
	require.NoError(t, err)
	require.True(t, sawProgress)

	got, err := os.ReadFile(destPath)
	require.NoError(t, err)
	require.Equal(t, content, got)

	// The temporary file must be gone after the rename.
	_, err = os.Stat(destPath + ".partial")
	require.True(t, os.IsNotExist(err))
}

func TestDatasetsDownload_ChecksumMismatch(t *testing.T) {
	t.Parallel()

	mgr := newDatasetsManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("corrupted content"))
	}))

	destPath := filepath.Join(t.TempDir(), "data.csv")
	dataset := models.Dataset{ID: "ds-1", SHA256: "deadbeef"}

	err := mgr.Download(context.Background(), dataset, destPath, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "checksum mismatch")

	// Neither the destination nor the partial file may be left behind.
	_, err = os.Stat(destPath)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(destPath + ".partial")
	require.True(t, os.IsNotExist(err))
}

func TestDatasetsDownload_NoChecksumSkipsVerification(t *testing.T) {
	t.Parallel()

	mgr := newDatasetsManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("unverified content"))
	}))

	destPath := filepath.Join(t.TempDir(), "data.bin")
	err := mgr.Download(context.Background(), models.Dataset{ID: "ds-2"}, destPath, nil)
	require.NoError(t, err)

	got, err := os.ReadFile(destPath)
	require.NoError(t, err)
	require.Equal(t, []byte("unverified content"), got)
}

func TestDatasetsDownload_ServerError(t *testing.T) {
	t.Parallel()

	mgr := newDatasetsManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"code": "not_found", "message": "gone"}}`))
	}))

	destPath := filepath.Join(t.TempDir(), "missing.csv")
	err := mgr.Download(context.Background(), models.Dataset{ID: "ds-404"}, destPath, nil)
	require.Error(t, err)
	require.True(t, client.IsNotFound(err))

	_, statErr := os.Stat(destPath + ".partial")
	require.True(t, os.IsNotExist(statErr))
}
