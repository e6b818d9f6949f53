package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pedkit/pedkit/pkg/cache"
	"github.com/pedkit/pedkit/pkg/pipeline"
)

// pedOpts holds the command-line flags shared by the commands that process
// a pedigree file.
type pedOpts struct {
	layoutFile  string // TOML record layout
	indexed     bool   // pre-indexed input mode
	outDir      string // output directory for logs and results
	refresh     bool   // bypass the kinship cache
	noCache     bool   // disable caching entirely
	maxBreakers int    // abort when a pedigree needs more breakers, 0 = off
}

// addPedFlags registers the shared flags on cmd.
func addPedFlags(cmd *cobra.Command, opts *pedOpts) {
	cmd.Flags().StringVarP(&opts.layoutFile, "layout", "l", "", "TOML record layout file")
	cmd.Flags().BoolVar(&opts.indexed, "indexed", false, "input is pre-indexed (sequential integer ids)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "output directory (default current)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.maxBreakers, "max-breakers", 0, "abort when a pedigree needs more loop-breakers (0 = no limit)")
}

// pipelineOptions converts the flags into pipeline options.
func (o *pedOpts) pipelineOptions(ctx context.Context, pedFile string) pipeline.Options {
	return pipeline.Options{
		PedFile:     pedFile,
		LayoutFile:  o.layoutFile,
		Indexed:     o.indexed,
		MaxBreakers: o.maxBreakers,
		Refresh:     o.refresh,
		OutDir:      o.outDir,
		Logger:      loggerFromContext(ctx),
	}
}

// newRunner builds a pipeline runner with the configured cache backend:
// redis when PEDKIT_REDIS_URL is set, otherwise the file cache.
func (o *pedOpts) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)
	if o.noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, logger), nil
	}

	if url := os.Getenv("PEDKIT_REDIS_URL"); url != "" {
		c, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			logger.Warnf("Redis cache unavailable, falling back to file cache: %v", err)
		} else {
			return pipeline.NewRunner(c, nil, logger), nil
		}
	}

	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, nil, logger), nil
}

// cacheDir returns the on-disk cache location, honoring PEDKIT_CACHE_DIR.
func cacheDir() (string, error) {
	if dir := os.Getenv("PEDKIT_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "pedkit"), nil
}

// outPath joins the output directory with a file name.
func (o *pedOpts) outPath(name string) string {
	if o.outDir == "" {
		return name
	}
	return filepath.Join(o.outDir, name)
}
