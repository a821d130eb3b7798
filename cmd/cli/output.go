// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"gridapi/internal/models"
)

// studyStatusColor maps a lifecycle state to its display color.
func studyStatusColor(s models.StudyStatus) *color.Color {
	switch s {
	case models.StudyActive:
		return successColor
	case models.StudyCompleted:
		return statusColor
	case models.StudyArchived:
		return dimColor
	default:
		return color.New(color.FgYellow)
	}
}

// truncateName shortens a display name to max characters, counting runes so
// multibyte names are never cut mid-rune.
func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// printJSON writes any value as indented JSON to stdout.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: failed to encode JSON output: %v\n", err)
		os.Exit(1)
	}
}

func printStudyTable(studies []models.Study) {
	fmt.Printf("%-14s %-30s %-10s %-6s %s\n", "ID", "NAME", "STATUS", "PHASE", "SPONSOR")
	for _, st := range studies {
		name := truncateName(st.Name, 28)
		fmt.Printf("%s %-30s %s %-6s %s\n",
			identifierColor.Sprintf("%-14s", st.ID),
			name,
			studyStatusColor(st.Status).Sprintf("%-10s", st.Status),
			st.Phase,
			st.Sponsor,
		)
	}
}

func printStudyDetail(st models.Study) {
	fmt.Printf("%-18s %s\n", "ID:", identifierColor.Sprint(st.ID))
	fmt.Printf("%-18s %s\n", "Name:", st.Name)
	fmt.Printf("%-18s %s\n", "Title:", st.Title)
	fmt.Printf("%-18s %s\n", "Status:", studyStatusColor(st.Status).Sprint(st.Status))
	fmt.Printf("%-18s %s\n", "Phase:", st.Phase)
	fmt.Printf("%-18s %s\n", "Sponsor:", st.Sponsor)
	fmt.Printf("%-18s %d\n", "Participants:", st.ParticipantCount)
	if !st.CreatedAt.IsZero() {
		fmt.Printf("%-18s %s\n", "Created:", st.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if !st.UpdatedAt.IsZero() {
		fmt.Printf("%-18s %s\n", "Updated:", st.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printDatasetTable(datasets []models.Dataset) {
	fmt.Printf("%-14s %-30s %-8s %-10s %s\n", "ID", "NAME", "FORMAT", "SIZE", "RECORDS")
	for _, ds := range datasets {
		name := truncateName(ds.Name, 28)
		fmt.Printf("%s %-30s %-8s %-10s %d\n",
			identifierColor.Sprintf("%-14s", ds.ID),
			name,
			ds.Format,
			ds.HumanSize(),
			ds.RecordCount,
		)
	}
}

func printDatasetDetail(ds models.Dataset) {
	fmt.Printf("%-14s %s\n", "ID:", identifierColor.Sprint(ds.ID))
	fmt.Printf("%-14s %s\n", "Study:", identifierColor.Sprint(ds.StudyID))
	fmt.Printf("%-14s %s\n", "Name:", ds.Name)
	fmt.Printf("%-14s %s\n", "Format:", ds.Format)
	fmt.Printf("%-14s %s (%d bytes)\n", "Size:", ds.HumanSize(), ds.SizeBytes)
	fmt.Printf("%-14s %d\n", "Records:", ds.RecordCount)
	if ds.SHA256 != "" {
		fmt.Printf("%-14s %s\n", "SHA-256:", dimColor.Sprint(ds.SHA256))
	}
	if !ds.CreatedAt.IsZero() {
		fmt.Printf("%-14s %s\n", "Created:", ds.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}
