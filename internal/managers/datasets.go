// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package managers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gridapi/internal/client"
	"gridapi/internal/logger"
	"gridapi/internal/models"
)

// DatasetsManager accesses study datasets and their file contents.
type DatasetsManager struct {
	client *client.Client
}

func NewDatasetsManager(c *client.Client) *DatasetsManager {
	return &DatasetsManager{client: c}
}

// List fetches all datasets attached to a study.
func (m *DatasetsManager) List(ctx context.Context, studyID string) ([]models.Dataset, error) {
	if studyID == "" {
		return nil, fmt.Errorf("study ID must not be empty")
	}

	var page models.Page[models.Dataset]
	if err := m.client.Get(ctx, "/api/v1/studies/"+studyID+"/datasets", nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list datasets for study %s: %w", studyID, err)
	}
	return page.Items, nil
}

// Get fetches a single dataset by ID.
func (m *DatasetsManager) Get(ctx context.Context, id string) (models.Dataset, error) {
	var dataset models.Dataset
	if id == "" {
		return dataset, fmt.Errorf("dataset ID must not be empty")
	}
	if err := m.client.Get(ctx, "/api/v1/datasets/"+id, nil, &dataset); err != nil {
		return dataset, fmt.Errorf("failed to get dataset %s: %w", id, err)
	}
	return dataset, nil
}

// Download fetches a dataset's file contents into destPath, reporting progress
// through onProgress (may be nil). The file is written to a temporary name
// first and renamed into place only after the SHA-256 digest matches the one
// recorded on the dataset, so a partial or corrupted download never replaces
// destPath.
func (m *DatasetsManager) Download(ctx context.Context, dataset models.Dataset, destPath string, onProgress func(written, total int64)) error {
	if dataset.ID == "" {
		return fmt.Errorf("dataset ID must not be empty")
	}

	if destPath == "" {
		destPath = dataset.Name
	}
	if destPath == "" {
		destPath = dataset.ID
	}

	tmpPath := destPath + ".partial"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("failed to create download file %s: %w", tmpPath, err)
	}

	hasher := sha256.New()
	written, err := m.client.Download(ctx, "/api/v1/datasets/"+dataset.ID+"/download",
		io.MultiWriter(f, hasher), onProgress)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to download dataset %s: %w", dataset.ID, err)
	}

	logger.Debug("Dataset downloaded", "dataset", dataset.ID, "bytes", written, "path", tmpPath)

	if dataset.SHA256 != "" {
		digest := hex.EncodeToString(hasher.Sum(nil))
		if digest != dataset.SHA256 {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("checksum mismatch for dataset %s: got %s, want %s", dataset.ID, digest, dataset.SHA256)
		}
	}

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			_ = os.Remove(tmpPath)
			return fmt.Errorf("failed to create destination directory %s: %w", dir, err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move download into place at %s: %w", destPath, err)
	}

	return nil
}
