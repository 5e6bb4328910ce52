package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppichler/issuedoc"
	"github.com/ppichler/issuedoc/report"
)

func analyzeCmd(configPath *string) *cobra.Command {
	var imageDir string
	var reportPath string
	var jsonOut bool
	var noInsights bool

	cmd := &cobra.Command{
		Use:   "analyze <document.docx>",
		Short: "Extract and segment a Word document into issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(*configPath)
			if err != nil {
				return fail(err)
			}
			defer eng.Close()

			var opts []issuedoc.AnalyzeOption
			if imageDir != "" {
				opts = append(opts, issuedoc.WithImageDir(imageDir))
			}
			if noInsights {
				opts = append(opts, issuedoc.WithoutInsights())
			}

			a, err := eng.Analyze(cmd.Context(), args[0], opts...)
			if err != nil {
				return fail(err)
			}

			if reportPath != "" {
				if err := report.WriteXLSX(reportPath, a.Issues); err != nil {
					return fail(err)
				}
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}

			fmt.Printf("%s: %d issues (insights: %s)\n", a.Filename, len(a.Issues), a.InsightStatus)
			for i, iss := range a.Issues {
				fmt.Printf("%3d. [%s/%s] %s\n", i+1,
					iss.Categories.IssueType, iss.Categories.Component, iss.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imageDir, "images", "", "Directory to save extracted images")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write an xlsx report to this path")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the full analysis as JSON")
	cmd.Flags().BoolVar(&noInsights, "no-insights", false, "Skip the LLM insight pass")

	return cmd
}
