package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func runsCmd(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(*configPath)
			if err != nil {
				return fail(err)
			}
			defer eng.Close()

			runs, err := eng.ListRuns(cmd.Context(), limit)
			if err != nil {
				return fail(err)
			}
			if len(runs) == 0 {
				fmt.Println("no runs recorded")
				return nil
			}

			for _, r := range runs {
				fmt.Printf("%4d  %s  %-30s issues=%d blocks=%d images=%d insights=%s\n",
					r.ID, r.CreatedAt, r.Filename,
					r.IssueCount, r.BlockCount, r.ImageCount, r.InsightStatus)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")

	return cmd
}
