package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLoopsCmd creates the loops command: report consanguinity loops and the
// loop-breaker count for every pedigree.
func newLoopsCmd() *cobra.Command {
	opts := pedOpts{}

	cmd := &cobra.Command{
		Use:   "loops <pedfile>",
		Short: "Report marriage loops and loop-breaker counts",
		Long: `Analyze each pedigree for marriage loops and report how many
loop-breakers a linkage run would need. Pedigrees requiring exactly one
breaker also get a suggested individual.

Examples:
  pedkit loops study.ped --layout layout.toml
  pedkit loops study.ped -l layout.toml --max-breakers 1`,
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

			result, err := runner.Execute(ctx, popts)
			if err != nil {
				return err
			}

			looped := 0
			for _, p := range result.Summary.Pedigrees {
				if p.HasLoops {
					looped++
				}
			}
			if looped == 0 {
				printSuccess("No marriage loops in %d pedigrees", result.Summary.NPed)
				return nil
			}

			printWarning("%d of %d pedigrees contain marriage loops", looped, result.Summary.NPed)
			printNewline()
			for n, p := range result.Summary.Pedigrees {
				if !p.HasLoops {
					continue
				}
				line := fmt.Sprintf("%d loop-breaker(s)", p.NBreakers)
				if p.Breaker != "" {
					line += fmt.Sprintf(", suggest ID=%s", p.Breaker)
				}
				printKeyValue(fmt.Sprintf("pedigree %d", n+1), line)
			}
			printNewline()
			return nil
		},
	}

	addPedFlags(cmd, &opts)
	return cmd
}
