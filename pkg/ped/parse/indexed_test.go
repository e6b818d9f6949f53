package parse

import (
	"strings"
	"testing"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/ped"
)

func ingestIndexed(t *testing.T, lines ...string) (*Result, *ped.Report, error) {
	t.Helper()
	rep := ped.NewReport()
	res, err := Indexed(strings.NewReader(strings.Join(lines, "\n")+"\n"), ped.Limits{}, rep)
	return res, rep, err
}

func TestIndexed(t *testing.T) {
	res, _, err := ingestIndexed(t,
		"1 0 0 1",
		"2 0 0 2",
		"3 1 2 1",
		"4 1 2 2 T1",
	)
	if err != nil {
		t.Fatalf("Indexed error: %v", err)
	}

	c := res.Cohort
	if c.NumIndividuals() != 4 {
		t.Fatalf("NumIndividuals = %d, want 4", c.NumIndividuals())
	}
	if c.Inds[2].ID != "3" {
		t.Errorf("ID = %q, want %q", c.Inds[2].ID, "3")
	}
	if res.Parents[2] != (ParentPair{Fa: "1", Mo: "2"}) {
		t.Errorf("Parents[2] = %+v", res.Parents[2])
	}
	if c.Inds[3].TwinID != "T1" {
		t.Errorf("TwinID = %q, want %q", c.Inds[3].TwinID, "T1")
	}
	if !res.Layout.Numeric {
		t.Error("indexed layout should use numeric ordering")
	}
	if res.Layout.ID != 1 {
		t.Errorf("layout id width = %d, want 1", res.Layout.ID)
	}
}

func TestIndexed_BadSeq(t *testing.T) {
	_, _, err := ingestIndexed(t,
		"1 0 0 1",
		"3 0 0 2",
	)
	if pederrors.GetCode(err) != pederrors.ErrCodeNotIndexed {
		t.Fatalf("error = %v, want NOT_INDEXED", err)
	}
}

func TestIndexed_ForwardParent(t *testing.T) {
	_, _, err := ingestIndexed(t, "1 2 3 1")
	if pederrors.GetCode(err) != pederrors.ErrCodeNotIndexed {
		t.Fatalf("error = %v, want NOT_INDEXED", err)
	}
	if !strings.Contains(err.Error(), "record 1 refers to parents (2, 3)") {
		t.Errorf("error = %v", err)
	}
}

func TestIndexed_HalfParents(t *testing.T) {
	_, rep, err := ingestIndexed(t,
		"1 0 0 1",
		"2 1 0 2",
	)
	if pederrors.GetCode(err) != pederrors.ErrCodeDataErrors {
		t.Fatalf("error = %v, want DATA_ERRORS", err)
	}
	if rep.NumErrors() != 1 {
		t.Errorf("NumErrors = %d, want 1", rep.NumErrors())
	}
}

func TestIndexed_NotAnInteger(t *testing.T) {
	_, _, err := ingestIndexed(t, "x 0 0 1")
	if pederrors.GetCode(err) != pederrors.ErrCodeInvalidRecord {
		t.Fatalf("error = %v, want INVALID_RECORD", err)
	}
}

func TestIdWidth(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{1, 1},
		{9, 1},
		{10, 2},
		{99, 2},
		{100, 3},
	}
	for _, tt := range tests {
		if got := idWidth(tt.n); got != tt.want {
			t.Errorf("idWidth(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
