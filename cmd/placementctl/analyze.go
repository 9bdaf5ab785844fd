package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Lakshm1-R/placement-app/internal/placement/entity"
	"github.com/Lakshm1-R/placement-app/internal/placement/parser"
	"github.com/Lakshm1-R/placement-app/internal/placement/stats"
)

type analyzeOutput struct {
	File       string                 `json:"file"`
	Meta       entity.ParseMeta       `json:"meta"`
	Statistics entity.BatchStatistics `json:"statistics"`
	Records    []entity.StudentRecord `json:"records,omitempty"`
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	var (
		withRecords bool
		compact     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Parse a placement sheet and print its statistics as JSON",
		Long: `Parse a .csv or .xlsx placement sheet with the same pipeline the server
uses and print the parse counters and batch statistics as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			res, err := parser.Parse(cmd.Context(), parser.DetectFormat(path), f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			out := analyzeOutput{
				File:       path,
				Meta:       res.Meta,
				Statistics: stats.Compute(res.Records),
			}
			if withRecords {
				out.Records = res.Records
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVarP(&withRecords, "records", "r", false, "include the parsed student records")
	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "print compact JSON")

	return cmd
}
