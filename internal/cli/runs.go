package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agenthands/regcompare/internal/document"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect archived comparison runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeEngine, err := openEngine(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer closeEngine()

		runs, err := engine.ListRuns(cmd.Context(), runsLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tFIRST\tSECOND\tMATCHES\tERRORS")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"),
				r.FirstLocation, r.SecondLocation, r.Summary.People.TotalMatches, r.Summary.TotalErrors())
		}
		return w.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print the summary of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeEngine, err := openEngine(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer closeEngine()

		run, err := engine.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return document.Encode(cmd.OutOrStdout(), document.FormatYAML, run)
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a run and its persons",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeEngine, err := openEngine(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer closeEngine()

		if err := engine.DeleteRun(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "max results")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}
