package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/taskboard/internal/models"
	"github.com/fentz26/taskboard/internal/query"
	"github.com/fentz26/taskboard/internal/tracker"
)

var indicatorCmd = &cobra.Command{
	Use:     "indicator",
	Aliases: []string{"ind"},
	Short:   "Manage indicators (importance, status and category labels)",
}

var indicatorAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add an indicator",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIndicatorAdd,
}

var indicatorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indicators grouped by type, with task counts",
	RunE:  runIndicatorList,
}

var indicatorRmCmd = &cobra.Command{
	Use:     "rm [indicator-id]",
	Aliases: []string{"delete"},
	Short:   "Delete an indicator",
	Long: `Delete an indicator. Deleting a category also removes it from every task
that carries it.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndicatorRm,
}

var (
	indType  string
	indColor string
)

func init() {
	indicatorCmd.AddCommand(indicatorAddCmd, indicatorListCmd, indicatorRmCmd)

	indicatorAddCmd.Flags().StringVar(&indType, "type", "", "Type: importance, status, category (default category)")
	indicatorAddCmd.Flags().StringVar(&indColor, "color", "", "Palette color name (default Green)")
}

func runIndicatorAdd(cmd *cobra.Command, args []string) error {
	in := tracker.IndicatorInput{Name: strings.Join(args, " ")}
	if indType != "" {
		t, err := models.ParseIndicatorType(indType)
		if err != nil {
			return err
		}
		in.Type = t
	}
	if indColor != "" {
		c, err := models.ParseColor(indColor)
		if err != nil {
			return err
		}
		in.Color = c
	}

	ind, err := board.CreateIndicator(in)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s indicator %q: %s\n", ind.Type, ind.Name, ind.ID)
	return nil
}

func runIndicatorList(cmd *cobra.Command, args []string) error {
	printIndicators(cmd.OutOrStdout(), board.Indicators(), board.Tasks())
	return nil
}

func printIndicators(out io.Writer, indicators []models.Indicator, tasks []models.Task) {
	groups := query.Group(indicators)
	counts := query.Counts(indicators, tasks)

	for i, typ := range models.IndicatorTypes() {
		if i > 0 {
			fmt.Fprintln(out)
		}
		group := groups.Of(typ)
		fmt.Fprintf(out, "%s (%d)\n", strings.ToUpper(string(typ)), len(group))
		if len(group) == 0 {
			fmt.Fprintln(out, "  none")
			continue
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tNAME\tCOLOR\tTASKS")
		for _, ind := range group {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%d\n", truncateID(ind.ID), truncate(ind.Name, 30), ind.Color, counts[ind.ID])
		}
		w.Flush()
	}
}

func runIndicatorRm(cmd *cobra.Command, args []string) error {
	id, err := resolveIndicatorID(args[0])
	if err != nil {
		return err
	}
	ind, err := board.Indicator(id)
	if err != nil {
		return err
	}
	cleared, err := board.DeleteIndicator(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s indicator %q\n", ind.Type, ind.Name)
	if cleared > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared category from %d task(s)\n", cleared)
	}
	return nil
}
