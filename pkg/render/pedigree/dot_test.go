package pedigree

import (
	"strings"
	"testing"

	"github.com/pedkit/pedkit/pkg/ped"
	"github.com/pedkit/pedkit/pkg/ped/build"
	"github.com/pedkit/pedkit/pkg/ped/parse"
	"github.com/pedkit/pedkit/pkg/ped/transform"
)

var testLayout = parse.Layout{ID: 3, Sex: 1}

func rec(id, fa, mo, sex string) string {
	pad := func(s string, w int) string {
		for len(s) < w {
			s = " " + s
		}
		return s
	}
	return pad(id, 3) + pad(fa, 3) + pad(mo, 3) + sex
}

func process(t *testing.T, lines ...string) *ped.Cohort {
	t.Helper()
	rep := ped.NewReport()
	res, err := parse.Records(strings.NewReader(strings.Join(lines, "\n")+"\n"), testLayout, ped.Limits{}, rep)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if err := build.Families(res, rep); err != nil {
		t.Fatalf("Families error: %v", err)
	}
	c := res.Cohort
	if err := transform.Generations(c); err != nil {
		t.Fatalf("Generations error: %v", err)
	}
	if err := transform.Partition(c); err != nil {
		t.Fatalf("Partition error: %v", err)
	}
	transform.Sequence(c)
	return c
}

func TestToDOT(t *testing.T) {
	c := process(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "1"),
		rec("4", "1", "2", "2"),
	)
	dot := ToDOT(c, 0, Options{})

	if !strings.HasPrefix(dot, "digraph P {") {
		t.Errorf("DOT should open a digraph: %q", dot[:20])
	}
	if !strings.Contains(dot, `"1" [shape=box`) {
		t.Error("male should draw as a box")
	}
	if !strings.Contains(dot, `"2" [shape=ellipse`) {
		t.Error("female should draw as an ellipse")
	}
	if !strings.Contains(dot, `"fam0" [shape=point`) {
		t.Error("family junction node missing")
	}
	if !strings.Contains(dot, `"1" -> "fam0"`) || !strings.Contains(dot, `"fam0" -> "3"`) {
		t.Error("family edges missing")
	}
}

func TestToDOT_UnknownSex(t *testing.T) {
	c := process(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "0"),
	)
	dot := ToDOT(c, 0, Options{})
	if !strings.Contains(dot, `"3" [shape=diamond`) {
		t.Error("unknown sex should draw as a diamond")
	}
}

func TestToDOT_FiltersByPedigree(t *testing.T) {
	c := process(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "1"),
		rec("7", "", "", "1"),
		rec("8", "", "", "2"),
		rec("9", "7", "8", "2"),
	)
	dot := ToDOT(c, 0, Options{})
	if strings.Contains(dot, `"9"`) {
		t.Error("individuals of another pedigree should be excluded")
	}
}

func TestToDOT_DetailedLabels(t *testing.T) {
	c := process(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "1"),
	)
	dot := ToDOT(c, 0, Options{Detailed: true})
	if !strings.Contains(dot, "gen: 1") {
		t.Error("detailed labels should include the generation")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">body</svg>`)
	got := string(normalizeViewBox(svg))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00"`) {
		t.Errorf("normalized svg = %q", got)
	}
	if !strings.Contains(got, `width="100" height="50"`) {
		t.Errorf("normalized svg should carry pixel dimensions: %q", got)
	}
}
