package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/taskboard/internal/query"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task totals",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	s := query.ComputeStats(board.Tasks())
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total:       %d\n", s.Total)
	fmt.Fprintf(out, "Completed:   %d\n", s.Completed)
	fmt.Fprintf(out, "In progress: %d\n", s.InProgress)
	fmt.Fprintf(out, "Pending:     %d\n", s.Pending)
	return nil
}
