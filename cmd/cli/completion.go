// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"gridapi/internal/models"
	"gridapi/internal/query"
)

// studyCompletionFunc suggests study IDs for commands that take one as an
// argument. Errors are swallowed: a failed API call during tab completion
// should degrade to no suggestions, not an error message mid-keystroke.
func studyCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if apiClient == nil || !apiClient.HasToken() {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	ctx, cancel := context.WithTimeout(context.Background(), appConfig.Timeout())
	defer cancel()

	page, err := studiesMgr.List(ctx, query.New().Limit(completionPageLimit))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var suggestions []string
	for _, st := range page.Items {
		suggestions = append(suggestions, formatStudySuggestion(st))
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

const completionPageLimit = 100

// formatStudySuggestion renders "id\tdescription" as cobra expects.
func formatStudySuggestion(st models.Study) string {
	desc := st.Name
	if desc == "" {
		desc = st.Title
	}
	if desc == "" {
		return st.ID
	}
	return st.ID + "\t" + desc
}
