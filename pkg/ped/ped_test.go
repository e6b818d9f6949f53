package ped

import (
	"errors"
	"strings"
	"testing"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
)

func TestAddIndividual(t *testing.T) {
	c := NewCohort(Limits{})

	idx, err := c.AddIndividual(Individual{ID: "10101", Sex: SexMale, Gen: 0})
	if err != nil {
		t.Fatalf("AddIndividual error: %v", err)
	}
	if idx != 0 {
		t.Errorf("first index = %d, want 0", idx)
	}

	in := c.Inds[idx]
	if in.Fam != Unassigned || in.Sib != Unassigned || in.Ped != Unassigned {
		t.Error("relationship fields should start Unassigned")
	}
	if !in.Founder() {
		t.Error("individual without a family should be a founder")
	}
}

func TestAddIndividual_EmptyID(t *testing.T) {
	c := NewCohort(Limits{})
	if _, err := c.AddIndividual(Individual{}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("AddIndividual with empty ID = %v, want ErrInvalidID", err)
	}
}

func TestAddIndividual_Limit(t *testing.T) {
	c := NewCohort(Limits{MaxIndividuals: 2})
	for i := 0; i < 2; i++ {
		if _, err := c.AddIndividual(Individual{ID: strings.Repeat("x", i+1)}); err != nil {
			t.Fatalf("AddIndividual %d error: %v", i, err)
		}
	}
	_, err := c.AddIndividual(Individual{ID: "overflow"})
	if pederrors.GetCode(err) != pederrors.ErrCodeLimitExceeded {
		t.Errorf("over-limit error = %v, want LIMIT_EXCEEDED", err)
	}
}

func TestChildren(t *testing.T) {
	c := NewCohort(Limits{})
	fa, _ := c.AddIndividual(Individual{ID: "fa", Sex: SexMale})
	mo, _ := c.AddIndividual(Individual{ID: "mo", Sex: SexFemale})
	k1, _ := c.AddIndividual(Individual{ID: "k1"})
	k2, _ := c.AddIndividual(Individual{ID: "k2"})
	k3, _ := c.AddIndividual(Individual{ID: "k3"})

	fam, err := c.AddFamily(Family{Fa: fa, Mo: mo, Kid1: k1, NKids: 3})
	if err != nil {
		t.Fatalf("AddFamily error: %v", err)
	}
	c.Inds[k1].Fam, c.Inds[k1].Sib = fam, k2
	c.Inds[k2].Fam, c.Inds[k2].Sib = fam, k3
	c.Inds[k3].Fam = fam

	kids := c.Children(fam)
	want := []int{k1, k2, k3}
	if len(kids) != len(want) {
		t.Fatalf("Children returned %d kids, want %d", len(kids), len(want))
	}
	for i := range want {
		if kids[i] != want[i] {
			t.Errorf("Children[%d] = %d, want %d", i, kids[i], want[i])
		}
	}

	gfa, gmo := c.Parents(k2)
	if gfa != fa || gmo != mo {
		t.Errorf("Parents(k2) = (%d, %d), want (%d, %d)", gfa, gmo, fa, mo)
	}
	if pfa, pmo := c.Parents(fa); pfa != Unassigned || pmo != Unassigned {
		t.Errorf("Parents of a founder = (%d, %d), want Unassigned", pfa, pmo)
	}
}

func TestAddTwinGroup(t *testing.T) {
	c := NewCohort(Limits{})
	num, err := c.AddTwinGroup(TwinGroup{ID: "T1", Sex: SexMale, Fam: Unassigned})
	if err != nil {
		t.Fatalf("AddTwinGroup error: %v", err)
	}
	if num != 1 {
		t.Errorf("first twin group number = %d, want 1", num)
	}
	num, _ = c.AddTwinGroup(TwinGroup{ID: "T2", Sex: SexFemale, Fam: Unassigned})
	if num != 2 {
		t.Errorf("second twin group number = %d, want 2", num)
	}
}

func TestSexString(t *testing.T) {
	tests := []struct {
		sex  Sex
		want string
	}{
		{SexMale, "M"},
		{SexFemale, "F"},
		{SexUnknown, "U"},
	}
	for _, tt := range tests {
		if got := tt.sex.String(); got != tt.want {
			t.Errorf("Sex(%d).String() = %q, want %q", tt.sex, got, tt.want)
		}
	}
}

func TestReportCheckpoint(t *testing.T) {
	rep := NewReport()
	if err := rep.Checkpoint(); err != nil {
		t.Errorf("Checkpoint with no errors = %v, want nil", err)
	}

	rep.Warnf("record added for father, ID=%q", "999")
	if err := rep.Checkpoint(); err != nil {
		t.Errorf("Checkpoint with warnings only = %v, want nil", err)
	}

	rep.Errorf("individual appears more than once, ID=%q", "101")
	rep.Errorf("father has same ID as mother, ID=%q", "102")
	err := rep.Checkpoint()
	if pederrors.GetCode(err) != pederrors.ErrCodeDataErrors {
		t.Fatalf("Checkpoint = %v, want DATA_ERRORS", err)
	}
	msg := pederrors.UserMessage(err)
	if !strings.Contains(msg, "2 data errors found") {
		t.Errorf("checkpoint message = %q, want error count", msg)
	}
	if !strings.Contains(msg, ErrorFileName) {
		t.Errorf("checkpoint message = %q, want error file name", msg)
	}
}

func TestReportWriteFiles(t *testing.T) {
	dir := t.TempDir()

	rep := NewReport()
	rep.Warnf("sex code changed to male for father, ID=%q", "5")
	if err := rep.WriteFiles(dir); err != nil {
		t.Fatalf("WriteFiles error: %v", err)
	}

	var sb strings.Builder
	if err := rep.WriteWarnings(&sb); err != nil {
		t.Fatalf("WriteWarnings error: %v", err)
	}
	if !strings.Contains(sb.String(), `ID="5"`) {
		t.Errorf("warning body = %q", sb.String())
	}
}
