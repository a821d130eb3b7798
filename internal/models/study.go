// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

// Package models defines the Grid API resource types as they appear on the
// wire. Field names follow the JSON the API emits; no client-side state is
// kept on these structs.
package models

import (
	"fmt"
	"strings"
	"time"
)

// StudyStatus is the lifecycle state of a study.
type StudyStatus string

const (
	StudyDraft     StudyStatus = "draft"
	StudyActive    StudyStatus = "active"
	StudyCompleted StudyStatus = "completed"
	StudyArchived  StudyStatus = "archived"
)

// StudyStatuses lists all valid study statuses, in lifecycle order.
func StudyStatuses() []StudyStatus {
	return []StudyStatus{StudyDraft, StudyActive, StudyCompleted, StudyArchived}
}

// ParseStudyStatus converts user input into a StudyStatus, case-insensitively.
func ParseStudyStatus(s string) (StudyStatus, error) {
	status := StudyStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range StudyStatuses() {
		if status == valid {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid study status '%s' (valid: draft, active, completed, archived)", s)
}

// Study represents a research study registered in the Grid API.
type Study struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Title            string      `json:"title,omitempty"`
	Status           StudyStatus `json:"status"`
	Phase            string      `json:"phase,omitempty"`
	Sponsor          string      `json:"sponsor,omitempty"`
	ParticipantCount int         `json:"participant_count"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// DisplayName returns the title if set, otherwise the short name.
func (s Study) DisplayName() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// StudyRequest is the payload for creating or updating a study. Zero-valued
// fields are omitted so partial updates only touch what the caller set.
type StudyRequest struct {
	Name    string      `json:"name,omitempty"`
	Title   string      `json:"title,omitempty"`
	Status  StudyStatus `json:"status,omitempty"`
	Phase   string      `json:"phase,omitempty"`
	Sponsor string      `json:"sponsor,omitempty"`
}
