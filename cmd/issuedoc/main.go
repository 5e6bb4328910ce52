// Command issuedoc analyzes Word documents describing website feedback
// and turns them into issue records and tracker tickets.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppichler/issuedoc"
)

func main() {
	var configPath string
	var verbose bool

	root := &cobra.Command{
		Use:   "issuedoc",
		Short: "Turn Word feedback documents into tracker tickets",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (YAML)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(analyzeCmd(&configPath))
	root.AddCommand(submitCmd(&configPath))
	root.AddCommand(runsCmd(&configPath))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func fail(err error) error {
	slog.Error("command failed", "error", err)
	return err
}

// newEngine loads configuration and opens the engine.
func newEngine(configPath string) (issuedoc.Engine, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return issuedoc.New(cfg)
}
