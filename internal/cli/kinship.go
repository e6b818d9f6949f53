package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newKinshipCmd creates the kinship command: compute pairwise kinship and
// write the phi2 file.
func newKinshipCmd() *cobra.Command {
	opts := pedOpts{}
	var stdout bool

	cmd := &cobra.Command{
		Use:   "kinship <pedfile>",
		Short: "Compute pairwise kinship coefficients",
		Long: `Compute the pairwise kinship matrix (twice the kinship coefficient and
the probability of sharing both alleles identical by descent) and write it
in the classic four-column phi2 format. Results are cached by model hash;
use --refresh to recompute.

Examples:
  pedkit kinship study.ped --layout layout.toml
  pedkit kinship study.ped -l layout.toml --stdout > phi2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := opts.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			spin := newSpinner(ctx, "Computing kinship coefficients...")
			spin.Start()
			result, err := runner.Execute(ctx, opts.pipelineOptions(ctx, args[0]))
			if err != nil {
				spin.StopWithError(err.Error())
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Kinship for %d individuals", result.Matrix.N))

			if stdout {
				return result.Matrix.WritePhi2(os.Stdout)
			}

			path := opts.outPath("phi2")
			if err := writeTo(path, result.Matrix.WritePhi2); err != nil {
				return err
			}
			printFile(path)
			if result.CacheInfo.KinshipHit {
				printDetail("kinship served from cache")
			}
			if result.Matrix.Inbred {
				printWarning("inbreeding detected")
			}
			return nil
		},
	}

	addPedFlags(cmd, &opts)
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the phi2 table to stdout")
	return cmd
}
