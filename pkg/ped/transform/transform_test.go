package transform

import (
	"strings"
	"testing"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/ped"
	"github.com/pedkit/pedkit/pkg/ped/build"
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

// buildCohort ingests the records and runs family construction, the state
// every transform expects.
func buildCohort(t *testing.T, lines ...string) *ped.Cohort {
	t.Helper()
	rep := ped.NewReport()
	res, err := parse.Records(strings.NewReader(strings.Join(lines, "\n")+"\n"), testLayout, ped.Limits{}, rep)
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if err := build.Families(res, rep); err != nil {
		t.Fatalf("Families error: %v", err)
	}
	return res.Cohort
}

// nuclearFamily is two founders with two children.
func nuclearFamily(t *testing.T) *ped.Cohort {
	return buildCohort(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "1"),
		rec("4", "1", "2", "2"),
	)
}

func TestCheckAncestry(t *testing.T) {
	c := nuclearFamily(t)
	if err := CheckAncestry(c); err != nil {
		t.Errorf("CheckAncestry on a tree = %v, want nil", err)
	}
}

func TestCheckAncestry_OwnAncestor(t *testing.T) {
	// 1's father is 2, and 2's father is 1.
	c := buildCohort(t,
		rec("3", "", "", "2"),
		rec("4", "", "", "2"),
		rec("1", "2", "3", "1"),
		rec("2", "1", "4", "1"),
	)
	err := CheckAncestry(c)
	if pederrors.GetCode(err) != pederrors.ErrCodePedigreeCycle {
		t.Fatalf("error = %v, want PEDIGREE_CYCLE", err)
	}
	want := `an individual near ID="1" is his/her own ancestor`
	if pederrors.UserMessage(err) != want {
		t.Errorf("message = %q, want %q", pederrors.UserMessage(err), want)
	}
}

func TestGenerations(t *testing.T) {
	c := buildCohort(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "1"),
		rec("5", "", "", "2"),
		rec("6", "3", "5", "1"),
	)
	if err := CheckAncestry(c); err != nil {
		t.Fatalf("CheckAncestry error: %v", err)
	}
	if err := Generations(c); err != nil {
		t.Fatalf("Generations error: %v", err)
	}

	wantGens := []int{0, 0, 1, 0, 2}
	for i, want := range wantGens {
		if got := c.Inds[i].Gen; got != want {
			t.Errorf("Gen[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestPartition(t *testing.T) {
	// Two separate families plus one unrelated individual.
	c := buildCohort(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "1"),
		rec("7", "", "", "1"),
		rec("8", "", "", "2"),
		rec("9", "7", "8", "2"),
		rec("99", "", "", "0"),
	)
	if err := Partition(c); err != nil {
		t.Fatalf("Partition error: %v", err)
	}

	if c.NumPedigrees() != 3 {
		t.Fatalf("NumPedigrees = %d, want 3", c.NumPedigrees())
	}
	if c.Inds[0].Ped != c.Inds[2].Ped {
		t.Error("parent and child should share a pedigree")
	}
	if c.Inds[0].Ped == c.Inds[3].Ped {
		t.Error("unconnected families should get separate pedigrees")
	}

	// The unrelated individual becomes a singleton pedigree.
	single := c.Peds[c.Inds[6].Ped]
	if single.NInd != 1 || single.NFou != 1 || len(single.Fams) != 0 {
		t.Errorf("singleton pedigree = %+v", single)
	}

	first := c.Peds[c.Inds[0].Ped]
	if first.NInd != 3 || first.NFou != 2 {
		t.Errorf("first pedigree NInd/NFou = %d/%d, want 3/2", first.NInd, first.NFou)
	}
	if len(first.Fams) != 1 {
		t.Fatalf("first pedigree families = %d, want 1", len(first.Fams))
	}
	if c.Fams[first.Fams[0]].Seq != 0 {
		t.Errorf("family Seq = %d, want pedigree-local 0", c.Fams[first.Fams[0]].Seq)
	}
}

func TestPartition_ConnectsThroughMarriage(t *testing.T) {
	// Family (1,2) and family (3,5) share individual 3.
	c := buildCohort(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "1"),
		rec("5", "", "", "2"),
		rec("6", "3", "5", "1"),
	)
	if err := Partition(c); err != nil {
		t.Fatalf("Partition error: %v", err)
	}
	if c.NumPedigrees() != 1 {
		t.Fatalf("NumPedigrees = %d, want 1", c.NumPedigrees())
	}
	if len(c.Peds[0].Fams) != 2 {
		t.Errorf("families in pedigree = %d, want 2", len(c.Peds[0].Fams))
	}
}

func TestLoops_TreeHasNone(t *testing.T) {
	c := nuclearFamily(t)
	if err := Partition(c); err != nil {
		t.Fatalf("Partition error: %v", err)
	}
	if got := Loops(c); got != 0 {
		t.Errorf("Loops = %d, want 0", got)
	}
	if c.Peds[0].HasLoops {
		t.Error("tree pedigree should not be flagged as looped")
	}
}

func TestLoops_SibMating(t *testing.T) {
	c := buildCohort(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "1"),
		rec("4", "1", "2", "2"),
		rec("5", "3", "4", "1"),
	)
	if err := Partition(c); err != nil {
		t.Fatalf("Partition error: %v", err)
	}

	if got := Loops(c); got != 1 {
		t.Errorf("Loops = %d, want 1", got)
	}
	p := c.Peds[0]
	if !p.HasLoops {
		t.Error("HasLoops should be set")
	}
	if p.NBreakers != 1 {
		t.Errorf("NBreakers = %d, want 1", p.NBreakers)
	}
	// The candidate is the first linking non-founder in identity order.
	if p.Breaker == ped.Unassigned {
		t.Fatal("Breaker candidate should be set when one breaker suffices")
	}
	if got := strings.TrimSpace(c.Inds[p.Breaker].ID); got != "3" {
		t.Errorf("Breaker = ID %q, want %q", got, "3")
	}
}

func TestLoops_FirstCousinMarriage(t *testing.T) {
	c := buildCohort(t,
		rec("1", "", "", "1"),
		rec("2", "", "", "2"),
		rec("3", "1", "2", "1"),
		rec("4", "1", "2", "2"),
		rec("5", "", "", "2"),
		rec("6", "", "", "1"),
		rec("7", "3", "5", "1"),
		rec("8", "6", "4", "2"),
		rec("9", "7", "8", "1"),
	)
	if err := Partition(c); err != nil {
		t.Fatalf("Partition error: %v", err)
	}

	if got := Loops(c); got != 1 {
		t.Errorf("Loops = %d, want 1", got)
	}
	if !c.Peds[0].HasLoops || c.Peds[0].NBreakers != 1 {
		t.Errorf("pedigree = %+v, want one breaker", c.Peds[0])
	}
}

func TestSequence(t *testing.T) {
	c := buildCohort(t,
		rec("6", "3", "5", "1"),
		rec("3", "1", "2", "1"),
		rec("5", "", "", "2"),
		rec("2", "", "", "2"),
		rec("1", "", "", "1"),
	)
	if err := CheckAncestry(c); err != nil {
		t.Fatalf("CheckAncestry error: %v", err)
	}
	if err := Generations(c); err != nil {
		t.Fatalf("Generations error: %v", err)
	}
	if err := Partition(c); err != nil {
		t.Fatalf("Partition error: %v", err)
	}
	Sequence(c)

	order := c.SeqOrder()
	if order == nil {
		t.Fatal("SeqOrder should be set")
	}
	// Generation before identity: founders 1, 2, 5 then 3 then 6.
	var ids []string
	for _, idx := range order {
		ids = append(ids, strings.TrimSpace(c.Inds[idx].ID))
	}
	want := []string{"1", "2", "5", "3", "6"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("sequence order = %v, want %v", ids, want)
		}
	}
	for pos, idx := range order {
		if c.Inds[idx].Seq != pos {
			t.Errorf("Seq[%d] = %d, want %d", idx, c.Inds[idx].Seq, pos)
		}
	}
	if c.Peds[0].Seq1 != 0 {
		t.Errorf("Seq1 = %d, want 0", c.Peds[0].Seq1)
	}
}
