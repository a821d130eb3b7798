// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Grid API Team

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"gridapi/internal/logger"
	"gridapi/internal/models"
	"gridapi/internal/query"
)

var (
	studiesStatusFlag  string
	studiesPhaseFlag   string
	studiesSponsorFlag string
	studiesSearchFlag  string
	studiesSortFlag    string
	studiesPageFlag    int
	studiesLimitFlag   int
	studiesAllFlag     bool
	studiesJSONFlag    bool

	studyNameFlag    string
	studyTitleFlag   string
	studySponsorFlag string
	studyPhaseFlag   string
	studyStatusFlag  string

	studiesDeleteYesFlag bool
)

var studiesCmd = &cobra.Command{
	Use:   "studies",
	Short: "Manage studies",
	Long:  `List, inspect, create, update, and delete studies registered in the Grid API.`,
}

var studiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List studies matching the given filters",
	Example: `  gridapi studies list
  gridapi studies list --status active --sort -created_at
  gridapi studies list --sponsor "Acme Clinical" --all
  gridapi studies list --search oncology --json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		requireToken()

		q, err := buildStudiesQuery()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Color("cyan")
		s.Suffix = " Fetching studies..."
		s.Start()

		ctx, cancel := apiContext()
		defer cancel()

		var studies []models.Study
		var total int
		if studiesAllFlag {
			studies, err = studiesMgr.ListAll(ctx, q)
			total = len(studies)
		} else {
			var page models.Page[models.Study]
			page, err = studiesMgr.List(ctx, q)
			studies = page.Items
			total = page.Total
		}
		s.Stop()

		if err != nil {
			exitWithAPIError(err)
		}

		if studiesJSONFlag || appConfig.OutputJSON {
			printJSON(studies)
			return
		}

		if len(studies) == 0 {
			fmt.Println("No studies found.")
			return
		}

		printStudyTable(studies)
		if !studiesAllFlag && total > len(studies) {
			dimColor.Printf("\nShowing %d of %d studies (use --page/--limit or --all).\n", len(studies), total)
		}
	},
}

var studiesGetCmd = &cobra.Command{
	Use:               "get <study-id>",
	Short:             "Show a single study",
	Example:           "  gridapi studies get st-42\n  gridapi studies get st-42 --json",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: studyCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		requireToken()

		ctx, cancel := apiContext()
		defer cancel()

		study, err := studiesMgr.Get(ctx, args[0])
		if err != nil {
			exitWithAPIError(err)
		}

		if studiesJSONFlag || appConfig.OutputJSON {
			printJSON(study)
			return
		}
		printStudyDetail(study)
	},
}

var studiesCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Register a new study",
	Example: `  gridapi studies create --name covid-booster --title "Booster Efficacy" --phase III --sponsor "Acme Clinical"`,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		requireToken()

		req, err := buildStudyRequest()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := apiContext()
		defer cancel()

		study, err := studiesMgr.Create(ctx, req)
		if err != nil {
			exitWithAPIError(err)
		}

		logger.Info("Study created", "id", study.ID, "name", study.Name)
		successColor.Printf("Study created: %s (%s)\n", study.DisplayName(), identifierColor.Sprint(study.ID))
	},
}

var studiesUpdateCmd = &cobra.Command{
	Use:               "update <study-id>",
	Short:             "Update fields of an existing study",
	Example:           "  gridapi studies update st-42 --status completed",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: studyCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		requireToken()

		req, err := buildStudyRequest()
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if req == (models.StudyRequest{}) {
			errorColor.Fprintln(os.Stderr, "Error: nothing to update (set at least one of --name, --title, --status, --phase, --sponsor).")
			os.Exit(1)
		}

		ctx, cancel := apiContext()
		defer cancel()

		study, err := studiesMgr.Update(ctx, args[0], req)
		if err != nil {
			exitWithAPIError(err)
		}

		logger.Info("Study updated", "id", study.ID)
		successColor.Printf("Study updated: %s (%s)\n", study.DisplayName(), identifierColor.Sprint(study.ID))
	},
}

var studiesDeleteCmd = &cobra.Command{
	Use:               "delete <study-id>",
	Short:             "Delete a study",
	Example:           "  gridapi studies delete st-42 --yes",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: studyCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		requireToken()

		id := args[0]
		if !studiesDeleteYesFlag {
			fmt.Printf("Delete study %s? This cannot be undone. [y/N]: ", identifierColor.Sprint(id))
			var answer string
			_, _ = fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" && answer != "yes" {
				fmt.Println("Aborted.")
				return
			}
		}

		ctx, cancel := apiContext()
		defer cancel()

		if err := studiesMgr.Delete(ctx, id); err != nil {
			exitWithAPIError(err)
		}

		logger.Info("Study deleted", "id", id)
		successColor.Printf("Study %s deleted.\n", identifierColor.Sprint(id))
	},
}

// buildStudiesQuery translates list flags into a query.
func buildStudiesQuery() (*query.Query, error) {
	q := query.New()

	if studiesStatusFlag != "" {
		status, err := models.ParseStudyStatus(studiesStatusFlag)
		if err != nil {
			return nil, err
		}
		q.Filter("status", query.Eq, string(status))
	}
	if studiesPhaseFlag != "" {
		q.Filter("phase", query.Eq, studiesPhaseFlag)
	}
	if studiesSponsorFlag != "" {
		q.Filter("sponsor", query.Like, studiesSponsorFlag)
	}
	if studiesSearchFlag != "" {
		q.Search(studiesSearchFlag)
	}
	if studiesSortFlag != "" {
		q.Sort(studiesSortFlag)
	}
	if studiesPageFlag > 0 {
		q.Page(studiesPageFlag)
	}
	if studiesLimitFlag > 0 {
		q.Limit(studiesLimitFlag)
	} else if !studiesAllFlag {
		q.Limit(appConfig.EffectivePageSize())
	}

	return q, nil
}

// buildStudyRequest translates create/update flags into a request payload.
func buildStudyRequest() (models.StudyRequest, error) {
	req := models.StudyRequest{
		Name:    studyNameFlag,
		Title:   studyTitleFlag,
		Phase:   studyPhaseFlag,
		Sponsor: studySponsorFlag,
	}
	if studyStatusFlag != "" {
		status, err := models.ParseStudyStatus(studyStatusFlag)
		if err != nil {
			return models.StudyRequest{}, err
		}
		req.Status = status
	}
	return req, nil
}

func init() {
	studiesListCmd.Flags().StringVar(&studiesStatusFlag, "status", "", "Filter by status (draft|active|completed|archived)")
	studiesListCmd.Flags().StringVar(&studiesPhaseFlag, "phase", "", "Filter by study phase")
	studiesListCmd.Flags().StringVar(&studiesSponsorFlag, "sponsor", "", "Filter by sponsor (substring match)")
	studiesListCmd.Flags().StringVar(&studiesSearchFlag, "search", "", "Free-text search")
	studiesListCmd.Flags().StringVar(&studiesSortFlag, "sort", "", "Sort key, prefix with '-' for descending (e.g. -created_at)")
	studiesListCmd.Flags().IntVar(&studiesPageFlag, "page", 0, "Page number (1-based)")
	studiesListCmd.Flags().IntVar(&studiesLimitFlag, "limit", 0, "Items per page")
	studiesListCmd.Flags().BoolVar(&studiesAllFlag, "all", false, "Fetch all pages")
	studiesListCmd.Flags().BoolVar(&studiesJSONFlag, "json", false, "Output raw JSON")

	studiesGetCmd.Flags().BoolVar(&studiesJSONFlag, "json", false, "Output raw JSON")

	for _, cmd := range []*cobra.Command{studiesCreateCmd, studiesUpdateCmd} {
		cmd.Flags().StringVar(&studyNameFlag, "name", "", "Short study name")
		cmd.Flags().StringVar(&studyTitleFlag, "title", "", "Full study title")
		cmd.Flags().StringVar(&studyStatusFlag, "status", "", "Study status (draft|active|completed|archived)")
		cmd.Flags().StringVar(&studyPhaseFlag, "phase", "", "Study phase (e.g. I, II, III)")
		cmd.Flags().StringVar(&studySponsorFlag, "sponsor", "", "Sponsoring organization")
	}

	studiesDeleteCmd.Flags().BoolVar(&studiesDeleteYesFlag, "yes", false, "Skip the confirmation prompt")

	studiesCmd.AddCommand(studiesListCmd)
	studiesCmd.AddCommand(studiesGetCmd)
	studiesCmd.AddCommand(studiesCreateCmd)
	studiesCmd.AddCommand(studiesUpdateCmd)
	studiesCmd.AddCommand(studiesDeleteCmd)
}
