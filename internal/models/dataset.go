// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package models

import (
	"fmt"
	"time"
)

// Dataset represents a data file attached to a study.
type Dataset struct {
	ID          string    `json:"id"`
	StudyID     string    `json:"study_id"`
	Name        string    `json:"name"`
	Format      string    `json:"format,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	RecordCount int64     `json:"record_count"`
	SHA256      string    `json:"sha256,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HumanSize renders SizeBytes as a short human-readable string.
func (d Dataset) HumanSize() string {
	const unit = 1024
	if d.SizeBytes < unit {
		return fmt.Sprintf("%d B", d.SizeBytes)
	}
	div, exp := int64(unit), 0
	for n := d.SizeBytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(d.SizeBytes)/float64(div), "KMGTPE"[exp])
}
