package transform

import (
	"github.com/pedkit/pedkit/pkg/ped"
)

// Relation classes used by the partition walk. For individual i:
//
//	relate[relFather][i]  father of i
//	relate[relMother][i]  mother of i
//	relate[relFaSib][i]   next individual with the same father
//	relate[relMoSib][i]   next individual with the same mother
//	relate[relChild][i]   first child of i
//
// plus a sixth, derived neighbor: the co-parent of i's first child. Together
// these reach every individual connected to i through a family, so a walk
// over them enumerates exactly one connected component.
const (
	relFather = 0
	relMother = 1
	relFaSib  = 2
	relMoSib  = 3
	relChild  = 4
)

// Partition splits the cohort into pedigrees: maximal family-connected
// components. Each component's families get the pedigree id and a pedigree-
// local family sequence in arena order; individuals connected to no family
// become singleton pedigrees (one individual, one founder, no families) after
// all components are traced.
func Partition(c *ped.Cohort) error {
	n := c.NumIndividuals()
	var relate [5][]int
	for r := range relate {
		relate[r] = make([]int, n)
		for i := range relate[r] {
			relate[r][i] = ped.Unassigned
		}
	}
	for i, in := range c.Inds {
		if in.Founder() {
			continue
		}
		f := c.Fams[in.Fam]
		relate[relFather][i] = f.Fa
		point(i, f.Fa, relate[relFaSib], relate[relChild])
		relate[relMother][i] = f.Mo
		point(i, f.Mo, relate[relMoSib], relate[relChild])
	}

	state := make([]int, n)
	for i := range state {
		state[i] = -1
	}
	stack := make([]int, 0, n)

	nped := 0
	for i := 0; i < n; i++ {
		if relate[relFather][i] == ped.Unassigned &&
			relate[relMother][i] == ped.Unassigned &&
			relate[relFaSib][i] == ped.Unassigned &&
			relate[relMoSib][i] == ped.Unassigned &&
			relate[relChild][i] == ped.Unassigned {
			continue
		}
		if c.Inds[i].Ped == ped.Unassigned {
			trace(c, relate, i, nped, stack, state)
			nped++
		}
	}

	for pi := 0; pi < nped; pi++ {
		p := ped.Pedigree{Breaker: ped.Unassigned}
		for fi, f := range c.Fams {
			if f.Ped == pi {
				f.Seq = len(p.Fams)
				p.Fams = append(p.Fams, fi)
			}
		}
		if _, err := c.AddPedigree(p); err != nil {
			return err
		}
	}

	for _, in := range c.Inds {
		if in.Ped == ped.Unassigned {
			pi, err := c.AddPedigree(ped.Pedigree{
				NInd:    1,
				NFou:    1,
				Breaker: ped.Unassigned,
			})
			if err != nil {
				return err
			}
			in.Ped = pi
			continue
		}
		p := c.Peds[in.Ped]
		p.NInd++
		if in.Founder() {
			p.NFou++
		}
	}
	return nil
}

// point attaches curind to parent ind's child list: the first child hangs
// off rOff1 (the relChild slot), later children chain through rNext (the
// parent's sibling slot, relFaSib for fathers, relMoSib for mothers).
func point(curind, ind int, rNext, rOff1 []int) {
	if rOff1[ind] == ped.Unassigned {
		rOff1[ind] = curind
		return
	}
	ind = rOff1[ind]
	for rNext[ind] != ped.Unassigned {
		ind = rNext[ind]
	}
	rNext[ind] = curind
}

// trace walks the component containing curind with an explicit stack,
// assigning curped to every individual reached and to each one's family.
// state[i] counts which neighbor of i to try next: the five relation slots
// in order, then the co-parent of i's first child, then backtrack. Families
// take the pedigree id through their children; every family has at least one
// child, so none is missed.
func trace(c *ped.Cohort, relate [5][]int, curind, curped int, stack []int, state []int) {
	top := -1
	for {
		if curind == ped.Unassigned || c.Inds[curind].Ped != ped.Unassigned {
			curind = stack[top]
		} else {
			top++
			if top < len(stack) {
				stack[top] = curind
			} else {
				stack = append(stack, curind)
			}
			in := c.Inds[curind]
			in.Ped = curped
			if !in.Founder() {
				c.Fams[in.Fam].Ped = curped
			}
		}
		state[curind]++
		switch s := state[curind]; {
		case s > 5:
			top--
			if top < 0 {
				return
			}
		case s < 5:
			curind = relate[s][curind]
		case relate[relChild][curind] != ped.Unassigned:
			kid := relate[relChild][curind]
			if relate[relFather][kid] == curind {
				curind = relate[relMother][kid]
			} else {
				curind = relate[relFather][kid]
			}
		}
	}
}
