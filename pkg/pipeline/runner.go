package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pedkit/pedkit/pkg/cache"
	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/kinship"
	"github.com/pedkit/pedkit/pkg/ped"
	"github.com/pedkit/pedkit/pkg/ped/build"
	"github.com/pedkit/pedkit/pkg/ped/parse"
	"github.com/pedkit/pedkit/pkg/ped/transform"
	"github.com/pedkit/pedkit/pkg/pedio"
)

// Runner executes the pipeline with caching. It is stateless apart from the
// cache and logger, so one Runner can serve many executions.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer gets the default keyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the full pipeline. The error and warning logs are written to
// the output directory even when the run aborts, so checkpoint failures can
// point at them.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Logger != nil {
		r = &Runner{Cache: r.Cache, Keyer: r.Keyer, Logger: opts.Logger}
	}

	rep := ped.NewReport()
	result := &Result{RunID: uuid.NewString(), Report: rep}
	defer func() {
		if err := rep.WriteFiles(opts.OutDir); err != nil {
			r.Logger.Warn("failed to write report files", "err", err)
		}
	}()

	source, err := os.ReadFile(opts.PedFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pederrors.Wrap(pederrors.ErrCodeFileNotFound, err,
				"pedigree file %s not found", opts.PedFile)
		}
		return nil, pederrors.Wrap(pederrors.ErrCodeInternal, err,
			"failed to read pedigree file %s", opts.PedFile)
	}

	ingestStart := time.Now()
	var res *parse.Result
	if opts.Indexed {
		res, err = parse.Indexed(bytes.NewReader(source), opts.Limits, rep)
	} else {
		res, err = parse.Records(bytes.NewReader(source), opts.Layout, opts.Limits, rep)
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	c := res.Cohort
	result.Cohort = c
	result.Stats.IngestTime = time.Since(ingestStart)
	r.Logger.Info("ingested records",
		"individuals", c.NumIndividuals(),
		"duration", result.Stats.IngestTime)

	buildStart := time.Now()
	if err := build.Families(res, rep); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if err := build.Twins(c, rep); err != nil {
		return nil, fmt.Errorf("twins: %w", err)
	}
	result.Stats.BuildTime = time.Since(buildStart)
	r.Logger.Info("built families",
		"families", c.NumFamilies(),
		"twinGroups", len(c.Twins),
		"warnings", rep.NumWarnings(),
		"duration", result.Stats.BuildTime)

	structStart := time.Now()
	if err := transform.CheckAncestry(c); err != nil {
		return nil, err
	}
	if err := transform.Generations(c); err != nil {
		return nil, err
	}
	if err := transform.Partition(c); err != nil {
		return nil, err
	}
	result.Stats.StructureTime = time.Since(structStart)
	r.Logger.Info("partitioned pedigrees",
		"pedigrees", c.NumPedigrees(),
		"duration", result.Stats.StructureTime)

	loopStart := time.Now()
	maxBreakers := transform.Loops(c)
	result.Stats.LoopTime = time.Since(loopStart)
	result.Stats.MaxBreakers = maxBreakers
	r.Logger.Info("analyzed loops",
		"maxBreakers", maxBreakers,
		"duration", result.Stats.LoopTime)
	if opts.MaxBreakers > 0 && maxBreakers > opts.MaxBreakers {
		return nil, pederrors.New(pederrors.ErrCodeLimitExceeded,
			"a pedigree requires %d loop-breakers, limit = %d", maxBreakers, opts.MaxBreakers)
	}

	transform.Sequence(c)
	result.Model = pedio.FromCohort(c)
	modelData, err := result.Model.Marshal()
	if err != nil {
		return nil, pederrors.Wrap(pederrors.ErrCodeInternal, err, "failed to serialize model")
	}
	result.ModelHash = cache.Hash(modelData)

	// Store the exported model keyed by source so read-only consumers can
	// fetch it without reprocessing.
	modelKey := r.Keyer.ModelKey(cache.Hash(source), opts.modelKeyOpts())
	if err := r.Cache.Set(ctx, modelKey, modelData, cache.ModelTTL); err != nil {
		r.Logger.Warn("model cache write failed", "err", err)
	}

	if !opts.SkipKinship {
		kinStart := time.Now()
		matrix, hit, err := r.kinshipWithCache(ctx, c, result.ModelHash, opts.Refresh)
		if err != nil {
			return nil, fmt.Errorf("kinship: %w", err)
		}
		result.Matrix = matrix
		result.CacheInfo.KinshipHit = hit
		result.Stats.KinshipTime = time.Since(kinStart)
		r.Logger.Info("computed kinship",
			"pairs", matrix.N*(matrix.N+1)/2,
			"cached", hit,
			"duration", result.Stats.KinshipTime)
	}

	result.Summary = pedio.BuildSummary(c)
	result.Stats.Individuals = c.NumIndividuals()
	result.Stats.Families = c.NumFamilies()
	result.Stats.Pedigrees = c.NumPedigrees()
	result.Stats.Founders = c.NumFounders()
	return result, nil
}

// kinshipWithCache returns the kinship matrix, served from cache when the
// model hash matches a previous run. Cache failures degrade to computing.
func (r *Runner) kinshipWithCache(ctx context.Context, c *ped.Cohort, modelHash string, refresh bool) (*kinship.Matrix, bool, error) {
	key := r.Keyer.KinshipKey(modelHash)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("kinship cache read failed", "err", err)
		} else if hit {
			m, err := kinship.Unmarshal(data)
			if err == nil && m.N == c.NumIndividuals() {
				applyInbreeding(c, m)
				return m, true, nil
			}
			_ = r.Cache.Delete(ctx, key)
		}
	}

	m, err := kinship.Compute(c)
	if err != nil {
		return nil, false, err
	}
	if data, err := m.Marshal(); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.KinshipTTL); err != nil {
			r.Logger.Warn("kinship cache write failed", "err", err)
		}
	}
	return m, false, nil
}

// applyInbreeding restores the pedigree inbreeding flags a cached matrix
// carries; Compute sets them as a side effect, a cache hit must too.
func applyInbreeding(c *ped.Cohort, m *kinship.Matrix) {
	for i := 0; i < m.N; i++ {
		if m.Tri[i][i] > 1 {
			c.Peds[m.PedOf[i]].Inbred = true
		}
	}
}
