package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/pedkit/pedkit/pkg/cache"
	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/ped/parse"
)

var testLayout = parse.Layout{ID: 3, Sex: 1}

// rec formats one fixed-width record for testLayout.
func rec(id, fa, mo, sex string) string {
	pad := func(s string, w int) string {
		for len(s) < w {
			s = " " + s
		}
		return s
	}
	return pad(id, 3) + pad(fa, 3) + pad(mo, 3) + sex
}

func writePedFile(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ped")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write pedigree file: %v", err)
	}
	return path
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func nuclearOptions(t *testing.T) Options {
	return Options{
		PedFile: writePedFile(t,
			rec("1", "", "", "1"),
			rec("2", "", "", "2"),
			rec("3", "1", "2", "1"),
			rec("4", "1", "2", "2"),
		),
		Layout: testLayout,
		OutDir: t.TempDir(),
	}
}

func TestExecute(t *testing.T) {
	r := quietRunner(nil)
	result, err := r.Execute(context.Background(), nuclearOptions(t))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set")
	}
	if result.Stats.Individuals != 4 || result.Stats.Families != 1 || result.Stats.Pedigrees != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.Model == nil || len(result.Model.Individuals) != 4 {
		t.Error("Model should carry the sequenced individuals")
	}
	if result.Matrix == nil || result.Matrix.N != 4 {
		t.Error("Matrix should be computed")
	}
	if result.Summary == nil || result.Summary.NPed != 1 {
		t.Error("Summary should be built")
	}
	if result.ModelHash == "" {
		t.Error("ModelHash should be set")
	}
	if result.CacheInfo.KinshipHit {
		t.Error("first run should not hit the kinship cache")
	}
}

func TestExecute_SkipKinship(t *testing.T) {
	opts := nuclearOptions(t)
	opts.SkipKinship = true

	result, err := quietRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Matrix != nil {
		t.Error("Matrix should be nil when kinship is skipped")
	}
	if result.Summary == nil {
		t.Error("Summary should still be built")
	}
}

func TestExecute_KinshipCacheHit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := quietRunner(fc)
	opts := nuclearOptions(t)

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.KinshipHit {
		t.Fatal("first run should compute kinship")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.KinshipHit {
		t.Error("second run should hit the kinship cache")
	}
	if second.Matrix.Phi2(2, 0) != first.Matrix.Phi2(2, 0) {
		t.Error("cached matrix should match the computed one")
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("third Execute error: %v", err)
	}
	if third.CacheInfo.KinshipHit {
		t.Error("refresh run should recompute kinship")
	}
}

func TestExecute_MaxBreakers(t *testing.T) {
	opts := Options{
		PedFile: writePedFile(t,
			rec("1", "", "", "1"),
			rec("2", "", "", "2"),
			rec("3", "1", "2", "1"),
			rec("4", "1", "2", "2"),
			rec("5", "3", "4", "1"),
		),
		Layout:      testLayout,
		OutDir:      t.TempDir(),
		MaxBreakers: 0,
	}
	// No limit: the looped pedigree processes fine.
	result, err := quietRunner(nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if result.Stats.MaxBreakers != 1 {
		t.Errorf("MaxBreakers = %d, want 1", result.Stats.MaxBreakers)
	}

	// A limit equal to the requirement passes.
	opts.MaxBreakers = 1
	if _, err := quietRunner(nil).Execute(context.Background(), opts); err != nil {
		t.Errorf("limit equal to requirement should pass: %v", err)
	}
}

func TestExecute_MaxBreakersExceeded(t *testing.T) {
	// Two sib-mating couples in one pedigree need two loop-breakers.
	opts := Options{
		PedFile: writePedFile(t,
			rec("1", "", "", "1"),
			rec("2", "", "", "2"),
			rec("3", "1", "2", "1"),
			rec("4", "1", "2", "2"),
			rec("5", "1", "2", "1"),
			rec("6", "1", "2", "2"),
			rec("7", "3", "4", "1"),
			rec("8", "5", "6", "2"),
		),
		Layout:      testLayout,
		OutDir:      t.TempDir(),
		MaxBreakers: 1,
	}
	_, err := quietRunner(nil).Execute(context.Background(), opts)
	if !pederrors.Is(err, pederrors.ErrCodeLimitExceeded) {
		t.Fatalf("error = %v, want LIMIT_EXCEEDED", err)
	}
	if !strings.Contains(err.Error(), "requires 2 loop-breakers, limit = 1") {
		t.Errorf("error = %v", err)
	}
}

func TestExecute_DataErrors(t *testing.T) {
	outDir := t.TempDir()
	opts := Options{
		PedFile: writePedFile(t,
			rec("1", "", "", "1"),
			rec("1", "", "", "2"),
		),
		Layout: testLayout,
		OutDir: outDir,
	}
	_, err := quietRunner(nil).Execute(context.Background(), opts)
	if !pederrors.Is(err, pederrors.ErrCodeDataErrors) {
		t.Fatalf("error = %v, want DATA_ERRORS", err)
	}

	// The error log is written even though the run aborted.
	data, rerr := os.ReadFile(filepath.Join(outDir, "pedkit.err"))
	if rerr != nil {
		t.Fatalf("error log not written: %v", rerr)
	}
	if !strings.Contains(string(data), "individual appears more than once") {
		t.Errorf("error log = %q", data)
	}
}

func TestExecute_MissingFile(t *testing.T) {
	opts := Options{
		PedFile: filepath.Join(t.TempDir(), "nope.ped"),
		Layout:  testLayout,
		OutDir:  t.TempDir(),
	}
	_, err := quietRunner(nil).Execute(context.Background(), opts)
	if !pederrors.Is(err, pederrors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	o := Options{PedFile: "x.ped"}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults error: %v", err)
	}
	if o.Layout != parse.DefaultLayout {
		t.Errorf("Layout = %+v, want default", o.Layout)
	}

	var empty Options
	if err := empty.ValidateAndSetDefaults(); err == nil {
		t.Error("missing PedFile should be rejected")
	}

	indexed := Options{PedFile: "x.ped", Indexed: true}
	if err := indexed.ValidateAndSetDefaults(); err != nil {
		t.Errorf("indexed options should not need a layout: %v", err)
	}
	if indexed.Layout != (parse.Layout{}) {
		t.Error("indexed mode should leave the layout empty")
	}
}
