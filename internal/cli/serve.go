package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/pedkit/pedkit/internal/server"
)

// newServeCmd creates the serve command: process a pedigree file and expose
// the results over a read-only HTTP API.
func newServeCmd() *cobra.Command {
	opts := pedOpts{}
	var addr string

	cmd := &cobra.Command{
		Use:   "serve <pedfile>",
		Short: "Serve processed results over HTTP",
		Long: `Process a pedigree file and serve the results over a read-only JSON API:

  GET /healthz                  liveness
  GET /api/summary              run totals and per-pedigree structure
  GET /api/model                the full sequenced model
  GET /api/pedigrees            per-pedigree summaries
  GET /api/pedigrees/{n}        one pedigree with its members
  GET /api/kinship/{i}/{j}      pairwise kinship by sequence number

Examples:
  pedkit serve study.ped --layout layout.toml
  pedkit serve study.ped -l layout.toml --addr :9090`,
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

			logger := loggerFromContext(ctx)
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(result.Model, result.Summary, result.Matrix, logger).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				printInfo("listening on %s", addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
				return ctx.Err()
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	addPedFlags(cmd, &opts)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
