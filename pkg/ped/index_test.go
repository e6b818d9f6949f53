package ped

import (
	"testing"
)

func TestCompareKeys(t *testing.T) {
	tests := []struct {
		name    string
		a, b    string
		numeric bool
		want    int
	}{
		{"byte order", "  1", "  2", false, -1},
		{"equal", "101", "101", false, 0},
		{"padded equal width", "  9", " 10", false, -1}, // space sorts before digits
		{"numeric short before long", "9", "10", true, -1},
		{"numeric leading zeros", "007", "7", true, -1}, // equal values tie-break byte-wise
		{"numeric equal value", "7", "7", true, 0},
		{"numeric large", "123456789012345678901", "99", true, 1},
		{"numeric no digits", "abc", "abd", true, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareKeys(tt.a, tt.b, tt.numeric)
			if sign(got) != tt.want {
				t.Errorf("CompareKeys(%q, %q, %v) = %d, want sign %d", tt.a, tt.b, tt.numeric, got, tt.want)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func TestSortKeys_Stable(t *testing.T) {
	keys := []string{"b", "a", "b", "a"}
	order := SortKeys(keys, false)
	want := []int{1, 3, 0, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("SortKeys order = %v, want %v", order, want)
		}
	}
}

func newIndexedCohort(t *testing.T, ids ...string) *Cohort {
	t.Helper()
	c := NewCohort(Limits{})
	for _, id := range ids {
		if _, err := c.AddIndividual(Individual{ID: id}); err != nil {
			t.Fatalf("AddIndividual(%q) error: %v", id, err)
		}
	}
	return c
}

func TestSortByID(t *testing.T) {
	c := newIndexedCohort(t, "  3", "  1", "  2")
	c.SortByID(false, nil)

	wantOrder := []int{1, 2, 0}
	for rank, idx := range c.IdentityOrder() {
		if idx != wantOrder[rank] {
			t.Fatalf("IdentityOrder = %v, want %v", c.IdentityOrder(), wantOrder)
		}
	}
	if c.IdentityRank(0) != 2 {
		t.Errorf("IdentityRank(0) = %d, want 2", c.IdentityRank(0))
	}
	if c.Inds[1].Seq != 0 {
		t.Errorf("Seq of lowest id = %d, want 0", c.Inds[1].Seq)
	}
}

func TestSortByID_Duplicates(t *testing.T) {
	c := newIndexedCohort(t, "  1", "  2", "  1")
	rep := NewReport()
	c.SortByID(false, rep)

	if rep.NumErrors() != 1 {
		t.Fatalf("NumErrors = %d, want 1", rep.NumErrors())
	}
	want := `individual appears more than once, ID="1"`
	if rep.Errors()[0] != want {
		t.Errorf("error = %q, want %q", rep.Errors()[0], want)
	}
}

func TestFindID(t *testing.T) {
	c := newIndexedCohort(t, "  3", "  1", "  2")
	c.SortByID(false, nil)

	if got := c.FindID("  2", false); got != 2 {
		t.Errorf("FindID(  2) = %d, want 2", got)
	}
	if got := c.FindID("  9", false); got != Unassigned {
		t.Errorf("FindID of missing id = %d, want Unassigned", got)
	}
}

func TestFindPermID(t *testing.T) {
	c := NewCohort(Limits{})
	c.AddIndividual(Individual{ID: "A101", PermID: "101"})
	c.AddIndividual(Individual{ID: "B101", PermID: "102"})
	c.SortByPermID(true, nil)

	if got := c.FindPermID("102", true); got != 1 {
		t.Errorf("FindPermID(102) = %d, want 1", got)
	}
	if got := c.FindPermID("103", true); got != Unassigned {
		t.Errorf("FindPermID of missing id = %d, want Unassigned", got)
	}
}
