package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppichler/issuedoc"
)

func submitCmd(configPath *string) *cobra.Command {
	var project string
	var issueType string
	var epic string
	var status string
	var noInsights bool

	cmd := &cobra.Command{
		Use:   "submit <document.docx>",
		Short: "Analyze a document and create one tracker ticket per issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(*configPath)
			if err != nil {
				return fail(err)
			}
			defer eng.Close()

			var aOpts []issuedoc.AnalyzeOption
			if noInsights {
				aOpts = append(aOpts, issuedoc.WithoutInsights())
			}
			a, err := eng.Analyze(cmd.Context(), args[0], aOpts...)
			if err != nil {
				return fail(err)
			}

			var sOpts []issuedoc.SubmitOption
			if project != "" {
				sOpts = append(sOpts, issuedoc.WithProject(project))
			}
			if issueType != "" {
				sOpts = append(sOpts, issuedoc.WithIssueType(issueType))
			}
			if epic != "" {
				sOpts = append(sOpts, issuedoc.WithEpic(epic))
			}
			if status != "" {
				sOpts = append(sOpts, issuedoc.WithStatus(status))
			}

			results, err := eng.Submit(cmd.Context(), a, sOpts...)
			if err != nil {
				return fail(err)
			}

			var failed int
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Printf("FAIL  %s: %v\n", r.Title, r.Err)
					continue
				}
				fmt.Printf("%-10s %-12s %s\n", r.Key, r.Status, r.Title)
			}
			fmt.Printf("%d tickets created, %d failed\n", len(results)-failed, failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Override the target project key")
	cmd.Flags().StringVar(&issueType, "type", "", "Override the ticket issue type")
	cmd.Flags().StringVar(&epic, "epic", "", "Link tickets under this epic")
	cmd.Flags().StringVar(&status, "status", "", "Target workflow status")
	cmd.Flags().BoolVar(&noInsights, "no-insights", false, "Skip the LLM insight pass")

	return cmd
}
