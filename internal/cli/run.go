package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pedkit/pedkit/pkg/archive"
	"github.com/pedkit/pedkit/pkg/pipeline"
)

// newRunCmd creates the run command: the full pipeline plus all output
// files.
func newRunCmd() *cobra.Command {
	opts := pedOpts{}

	cmd := &cobra.Command{
		Use:   "run <pedfile>",
		Short: "Run the full pipeline and write all output files",
		Long: `Run the full preparation pipeline: ingest, build families, validate
descent, partition into pedigrees, analyze loops, sequence, and compute
kinship. Writes the sequenced index (pedindex.out), the JSON model
(pedindex.json), the run summary (pedigree.info), and the kinship file
(phi2).

Set PEDKIT_MONGO_URI (and optionally PEDKIT_MONGO_DB) to archive the run.

Examples:
  pedkit run study.ped --layout layout.toml
  pedkit run study.ped -l layout.toml -o results/ --max-breakers 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := opts.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			spin := newSpinner(ctx, "Processing pedigree data...")
			spin.Start()
			result, err := runner.Execute(ctx, opts.pipelineOptions(ctx, args[0]))
			if err != nil {
				spin.StopWithError(err.Error())
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Processed %d individuals in %d pedigrees",
				result.Stats.Individuals, result.Stats.Pedigrees))
			printStats(result.Stats.Individuals, result.Stats.Families,
				result.Stats.Pedigrees, result.CacheInfo.KinshipHit)

			files := []struct {
				name  string
				write func(path string) error
			}{
				{"pedindex.out", func(path string) error {
					return writeTo(path, result.Model.WriteIndex)
				}},
				{"pedindex.json", result.Model.WriteFile},
				{"pedigree.info", func(path string) error {
					return writeTo(path, result.Summary.WriteText)
				}},
				{"phi2", func(path string) error {
					return writeTo(path, result.Matrix.WritePhi2)
				}},
			}
			for _, f := range files {
				path := opts.outPath(f.name)
				if err := f.write(path); err != nil {
					return fmt.Errorf("write %s: %w", f.name, err)
				}
				printFile(path)
			}

			if uri := os.Getenv("PEDKIT_MONGO_URI"); uri != "" {
				if err := archiveRun(cmd, args[0], result, uri); err != nil {
					printWarning("archive failed: %v", err)
				} else {
					printDetail("archived run %s", result.RunID)
				}
			}

			for _, w := range result.Report.Warnings() {
				printWarning("%s", w)
			}
			return nil
		},
	}

	addPedFlags(cmd, &opts)
	return cmd
}

// writeTo writes via fn into a freshly created file.
func writeTo(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// archiveRun stores the completed run in MongoDB.
func archiveRun(cmd *cobra.Command, source string, result *pipeline.Result, uri string) error {
	ctx := cmd.Context()
	db := os.Getenv("PEDKIT_MONGO_DB")
	if db == "" {
		db = "pedkit"
	}
	a, err := archive.Open(ctx, uri, db)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	return a.SaveRun(ctx, &archive.RunDoc{
		RunID:     result.RunID,
		Source:    source,
		ModelHash: result.ModelHash,
		Summary:   result.Summary,
		Model:     result.Model,
		Warnings:  result.Report.Warnings(),
	})
}
