// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStudyStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseStudyStatus("active")
	require.NoError(t, err)
	require.Equal(t, StudyActive, status)

	status, err = ParseStudyStatus("  ARCHIVED ")
	require.NoError(t, err)
	require.Equal(t, StudyArchived, status)

	_, err = ParseStudyStatus("running")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid study status")
}

func TestStudyDisplayName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Booster Efficacy", Study{Name: "covid-booster", Title: "Booster Efficacy"}.DisplayName())
	require.Equal(t, "covid-booster", Study{Name: "covid-booster"}.DisplayName())
}

func TestPageMath(t *testing.T) {
	t.Parallel()

	p := Page[Study]{Total: 250, Page: 1, PerPage: 100}
	require.Equal(t, 3, p.TotalPages())
	require.True(t, p.HasNext())

	p.Page = 3
	require.False(t, p.HasNext())

	exact := Page[Study]{Total: 200, Page: 2, PerPage: 100}
	require.Equal(t, 2, exact.TotalPages())
	require.False(t, exact.HasNext())

	empty := Page[Study]{}
	require.Equal(t, 0, empty.TotalPages())
	require.False(t, empty.HasNext())
}

func TestDatasetHumanSize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "512 B", Dataset{SizeBytes: 512}.HumanSize())
	require.Equal(t, "1.0 KiB", Dataset{SizeBytes: 1024}.HumanSize())
	require.Equal(t, "1.5 MiB", Dataset{SizeBytes: 3 * 512 * 1024}.HumanSize())
	require.Equal(t, "2.0 GiB", Dataset{SizeBytes: 2 * 1024 * 1024 * 1024}.HumanSize())
}
