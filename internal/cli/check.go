package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedkit/pedkit/pkg/pipeline"
)

// newCheckCmd creates the check command: validate pedigree data and report
// the derived structure without computing kinship or writing result files.
func newCheckCmd() *cobra.Command {
	opts := pedOpts{}

	cmd := &cobra.Command{
		Use:   "check <pedfile>",
		Short: "Validate pedigree data and report structure",
		Long: `Validate a pedigree data file: record layout, sex codes, parent
references, twin groups, and descent structure. Prints the derived totals
and any warnings; data errors abort with a pointer to the error log.

Examples:
  pedkit check study.ped --layout layout.toml
  pedkit check pedindex.raw --indexed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := opts.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			popts := opts.pipelineOptions(ctx, args[0])
			popts.SkipKinship = true

			p := newProgress(loggerFromContext(ctx))
			result, err := runner.Execute(ctx, popts)
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Checked %d records", result.Stats.Individuals))

			printSummary(result)
			for _, w := range result.Report.Warnings() {
				printWarning("%s", w)
			}
			return nil
		},
	}

	addPedFlags(cmd, &opts)
	return cmd
}

// printSummary prints the run totals and per-pedigree structure.
func printSummary(result *pipeline.Result) {
	s := result.Summary
	printNewline()
	fmt.Println(StyleTitle.Render("Pedigree structure"))
	printKeyValue("pedigrees", fmt.Sprintf("%d", s.NPed))
	printKeyValue("families", fmt.Sprintf("%d", s.NFam))
	printKeyValue("individuals", fmt.Sprintf("%d", s.NInd))
	printKeyValue("founders", fmt.Sprintf("%d", s.NFou))
	if s.MaxBreakers > 0 {
		printKeyValue("loop-breakers", fmt.Sprintf("%d (max per pedigree)", s.MaxBreakers))
	}
	if s.Inbred {
		printWarning("inbreeding detected")
	}
	printNewline()
}
