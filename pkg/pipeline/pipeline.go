// Package pipeline orchestrates a complete pedkit run: ingestion, family
// construction, structural validation, partitioning, loop analysis,
// sequencing, and kinship, with per-stage timing and kinship caching.
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pedkit/pedkit/pkg/cache"
	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/kinship"
	"github.com/pedkit/pedkit/pkg/ped"
	"github.com/pedkit/pedkit/pkg/ped/parse"
	"github.com/pedkit/pedkit/pkg/pedio"
)

// Options configures one pipeline execution.
type Options struct {
	// PedFile is the pedigree data file to process.
	PedFile string

	// LayoutFile names a TOML record layout. Ignored when Layout is set
	// directly or Indexed is true.
	LayoutFile string

	// Layout is the record layout. Zero value means load LayoutFile, or
	// fall back to the default layout.
	Layout parse.Layout

	// Indexed selects the pre-indexed input mode.
	Indexed bool

	// Limits bound the model size. Zero fields use the defaults.
	Limits ped.Limits

	// MaxBreakers aborts the run when any pedigree needs more than this
	// many loop-breakers. Zero disables the check.
	MaxBreakers int

	// SkipKinship stops after sequencing, leaving Result.Matrix nil.
	SkipKinship bool

	// Refresh bypasses the kinship cache.
	Refresh bool

	// OutDir receives the error and warning logs. Empty means the
	// current directory.
	OutDir string

	// Logger overrides the runner's logger for this execution.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.PedFile == "" {
		return pederrors.New(pederrors.ErrCodeInvalidRecord, "pedigree file is required")
	}
	if !o.Indexed && o.Layout == (parse.Layout{}) {
		if o.LayoutFile != "" {
			l, err := parse.LoadLayout(o.LayoutFile)
			if err != nil {
				return err
			}
			o.Layout = l
		} else {
			o.Layout = parse.DefaultLayout
		}
	}
	return nil
}

// Stats captures stage timings and model counts.
type Stats struct {
	IngestTime    time.Duration `json:"ingest_time"`
	BuildTime     time.Duration `json:"build_time"`
	StructureTime time.Duration `json:"structure_time"`
	LoopTime      time.Duration `json:"loop_time"`
	KinshipTime   time.Duration `json:"kinship_time"`

	Individuals int `json:"individuals"`
	Families    int `json:"families"`
	Pedigrees   int `json:"pedigrees"`
	Founders    int `json:"founders"`
	MaxBreakers int `json:"max_breakers"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	KinshipHit bool `json:"kinship_hit"`
}

// Result is the outcome of a pipeline execution.
type Result struct {
	RunID string

	Cohort  *ped.Cohort
	Model   *pedio.Model
	Summary *pedio.Summary
	Matrix  *kinship.Matrix
	Report  *ped.Report

	// ModelHash identifies the processed model for caching and archiving.
	ModelHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// modelKeyOpts derives the cache key options from the execution options.
func (o *Options) modelKeyOpts() cache.ModelKeyOpts {
	layout := ""
	if !o.Indexed {
		l := o.Layout
		layout = fmt.Sprintf("%d:%d:%d:%d:%d:%v",
			l.FamID, l.ID, l.Sex, l.TwinID, l.HHID, l.Numeric)
	}
	return cache.ModelKeyOpts{Indexed: o.Indexed, Layout: layout}
}
