// Package transform derives structure from a built cohort: ancestry
// validation, generation numbers, pedigree partitioning, loop analysis, and
// the final output sequence. Each function is a whole-cohort pass; callers
// run them in order (CheckAncestry, Generations, Partition, Loops, Sequence).
package transform

import (
	"strings"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/ped"
)

// CheckAncestry verifies that no individual is their own ancestor by peeling
// the parent relation topologically: founders first, then any individual
// whose parents are both peeled. If the peel stalls before covering
// everyone, a descent cycle exists and the error names an individual inside
// it (the first unpeeled one in identity order).
//
// Generations cannot terminate on cyclic descent, so this check must run
// before it.
func CheckAncestry(c *ped.Cohort) error {
	n := c.NumIndividuals()
	if n == 0 {
		return nil
	}

	// remaining[i] counts unpeeled parents. famsOf maps a parent to the
	// families it heads so peeling one individual releases its children.
	remaining := make([]int, n)
	famsOf := make([][]int, n)
	for fi, f := range c.Fams {
		famsOf[f.Fa] = append(famsOf[f.Fa], fi)
		famsOf[f.Mo] = append(famsOf[f.Mo], fi)
	}
	queue := make([]int, 0, n)
	for i, in := range c.Inds {
		if in.Founder() {
			queue = append(queue, i)
		} else {
			remaining[i] = 2
		}
	}

	peeled := 0
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		peeled++
		for _, fi := range famsOf[cur] {
			for _, kid := range c.Children(fi) {
				remaining[kid]--
				if remaining[kid] == 0 {
					queue = append(queue, kid)
				}
			}
		}
	}
	if peeled == n {
		return nil
	}

	for _, i := range c.IdentityOrder() {
		if !c.Inds[i].Founder() && remaining[i] > 0 {
			return pederrors.New(pederrors.ErrCodePedigreeCycle,
				"an individual near ID=%q is his/her own ancestor",
				strings.TrimSpace(c.Inds[i].ID))
		}
	}
	return pederrors.New(pederrors.ErrCodePedigreeCycle,
		"an individual is his/her own ancestor")
}

// Generations assigns each non-founder the generation max(father, mother)+1
// by fixed-point iteration. Founders carry generation 0 from ingestion. A
// sweep that assigns nothing while individuals remain unassigned means the
// descent relation is not well founded.
func Generations(c *ped.Cohort) error {
	assigned := 0
	for _, in := range c.Inds {
		if in.Gen >= 0 {
			assigned++
		}
	}
	for assigned < c.NumIndividuals() {
		before := assigned
		for _, in := range c.Inds {
			if in.Gen >= 0 {
				continue
			}
			fa, mo := c.Fams[in.Fam].Fa, c.Fams[in.Fam].Mo
			fgen, mgen := c.Inds[fa].Gen, c.Inds[mo].Gen
			if fgen >= 0 && mgen >= 0 {
				in.Gen = max(fgen, mgen) + 1
				assigned++
			}
		}
		if assigned == before {
			return pederrors.New(pederrors.ErrCodePedigreeCycle,
				"pedigree error detected while assigning generation numbers")
		}
	}
	return nil
}
