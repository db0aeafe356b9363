package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/regcompare/internal/document"
)

var (
	compareOutput    string
	compareSummary   bool
	compareArchive   bool
	compareThreshold float64
)

var compareCmd = &cobra.Command{
	Use:   "compare FIRST SECOND",
	Short: "Compare two page documents",
	Long: `Compare two page documents of the same register page. FIRST is the
trusted source; SECOND is evaluated against it. Documents may be JSON, YAML
or TOML, chosen by file extension.

Examples:
  regcompare compare transcription.yaml extraction.json
  regcompare compare a.yaml b.yaml --summary --output json
  regcompare compare a.yaml b.yaml --archive`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareOutput, "output", "o", "yaml", "output format: json or yaml")
	compareCmd.Flags().BoolVarP(&compareSummary, "summary", "s", false, "print only the summary")
	compareCmd.Flags().BoolVar(&compareArchive, "archive", false, "store the run in memgraph")
	compareCmd.Flags().Float64Var(&compareThreshold, "threshold", 0, "name similarity threshold (overrides config)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	format := document.Format(compareOutput)
	if format != document.FormatJSON && format != document.FormatYAML {
		return fmt.Errorf("unsupported output format %q", compareOutput)
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Matcher.SimilarityThreshold = compareThreshold
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	first, err := document.LoadFile(args[0])
	if err != nil {
		return err
	}
	second, err := document.LoadFile(args[1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	engine, closeEngine, err := openEngine(ctx, compareArchive || cfg.Memgraph.Archive)
	if err != nil {
		return err
	}
	defer closeEngine()

	rep, err := engine.Compare(ctx, first, second)
	if err != nil {
		if rep == nil {
			return err
		}
		logger.Error("failed to archive run", "run", rep.ID, "error", err)
	}

	out := cmd.OutOrStdout()
	if compareSummary {
		return document.Encode(out, format, rep.Summary)
	}
	return document.Encode(out, format, rep)
}
