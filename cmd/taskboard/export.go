package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/query"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks and indicators",
	RunE:  runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

// snapshot is the exported board.
type snapshot struct {
	Tasks      []models.Task      `json:"tasks" yaml:"tasks"`
	Indicators []models.Indicator `json:"indicators" yaml:"indicators"`
	Stats      query.Stats        `json:"stats" yaml:"stats"`
}

func runExport(cmd *cobra.Command, args []string) error {
	tasks := board.Tasks()
	snap := snapshot{
		Tasks:      tasks,
		Indicators: board.Indicators(),
		Stats:      query.ComputeStats(tasks),
	}

	if exportOutput == "" {
		return writeSnapshot(cmd.OutOrStdout(), exportFormat, snap)
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := writeSnapshot(f, exportFormat, snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(snap.Tasks), exportOutput)
	return nil
}

func writeSnapshot(out io.Writer, format string, snap snapshot) error {
	if snap.Tasks == nil {
		snap.Tasks = []models.Task{}
	}
	if snap.Indicators == nil {
		snap.Indicators = []models.Indicator{}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid format %q, must be: json or yaml", format)
	}
}
