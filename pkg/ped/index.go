package ped

import (
	"slices"
	"sort"
	"strings"
)

// Identity index. Individuals are located by ID (and optionally by permanent
// ID) through a stable sort of arena indices plus binary search. The sort is
// stable so equal keys keep parse order, which makes duplicate reporting and
// the partitioner's tie-breaking deterministic.

// CompareKeys compares two identifier keys. In numeric mode any leading
// digit run is compared by value first (shorter digit runs order before
// longer after zero-stripping), then the full strings byte-wise. Identifiers
// are kept with their field padding, so byte-wise comparison of equal-width
// keys is already numeric for right-justified ids; numeric mode covers
// left-justified ids of varying width.
func CompareKeys(a, b string, numeric bool) int {
	if numeric {
		da, db := digitPrefix(a), digitPrefix(b)
		if c := compareDigits(da, db); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func digitPrefix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// compareDigits compares two digit runs by value without converting to
// integers, so identifiers longer than any fixed-width integer still sort.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// SortKeys stable-sorts the indices 0..len(keys)-1 by key and returns the
// permutation.
func SortKeys(keys []string, numeric bool) []int {
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int {
		return CompareKeys(keys[x], keys[y], numeric)
	})
	return order
}

// SortByID builds the identity index: individuals sorted by ID, and the rank
// of each individual within that order. Each individual's Seq is set to its
// identity rank; the sequencer later overwrites Seq with the output order,
// but loop analysis runs in between and keys its link lists by this rank.
//
// Duplicate IDs are recorded as data errors on rep (first occurrence keeps
// its rank).
func (c *Cohort) SortByID(numeric bool, rep *Report) {
	keys := make([]string, len(c.Inds))
	for i, in := range c.Inds {
		keys[i] = in.ID
	}
	c.idSort = SortKeys(keys, numeric)
	c.idRank = make([]int, len(c.Inds))
	for rank, idx := range c.idSort {
		c.idRank[idx] = rank
		c.Inds[idx].Seq = rank
	}
	if rep != nil {
		for r := 1; r < len(c.idSort); r++ {
			if keys[c.idSort[r]] == keys[c.idSort[r-1]] {
				rep.Errorf("individual appears more than once, ID=%q",
					strings.TrimSpace(keys[c.idSort[r]]))
			}
		}
	}
}

// FindID returns the arena index of the individual with the given ID, or
// Unassigned when absent. SortByID must have run since the last insertion.
func (c *Cohort) FindID(id string, numeric bool) int {
	n := len(c.idSort)
	pos := sort.Search(n, func(r int) bool {
		return CompareKeys(c.Inds[c.idSort[r]].ID, id, numeric) >= 0
	})
	if pos < n && c.Inds[c.idSort[pos]].ID == id {
		return c.idSort[pos]
	}
	return Unassigned
}

// IdentityRank returns the individual's rank in identity order.
func (c *Cohort) IdentityRank(i int) int { return c.idRank[i] }

// IdentityOrder returns individual indices in identity order. The returned
// slice is owned by the cohort; callers must not modify it.
func (c *Cohort) IdentityOrder() []int { return c.idSort }

// SortByPermID builds the permanent-id index used to join marker files back
// to individuals. Duplicate permanent ids are data errors.
func (c *Cohort) SortByPermID(numeric bool, rep *Report) {
	keys := make([]string, len(c.Inds))
	for i, in := range c.Inds {
		keys[i] = in.PermID
	}
	c.permSort = SortKeys(keys, numeric)
	if rep != nil {
		for r := 1; r < len(c.permSort); r++ {
			if keys[c.permSort[r]] == keys[c.permSort[r-1]] {
				rep.Errorf("permanent ID appears more than once, ID=%q",
					strings.TrimSpace(keys[c.permSort[r]]))
			}
		}
	}
}

// FindPermID returns the arena index of the individual with the given
// permanent ID, or Unassigned when absent.
func (c *Cohort) FindPermID(id string, numeric bool) int {
	n := len(c.permSort)
	pos := sort.Search(n, func(r int) bool {
		return CompareKeys(c.Inds[c.permSort[r]].PermID, id, numeric) >= 0
	})
	if pos < n && c.Inds[c.permSort[pos]].PermID == id {
		return c.permSort[pos]
	}
	return Unassigned
}
