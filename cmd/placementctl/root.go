package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Lakshm1-R/placement-app/internal/pkg/pkglog"
)

// NewRootCmd creates the root command for placementctl.
func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "placementctl",
		Short:         "Inspect placement sheets without running the server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			pkglog.InitLogging(pkglog.Options{
				Service: "placementctl",
				Level:   logLevel,
				Output:  cmd.ErrOrStderr(),
			})
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(NewAnalyzeCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
