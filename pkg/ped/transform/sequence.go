package transform

import (
	"cmp"
	"slices"

	"github.com/pedkit/pedkit/pkg/ped"
)

// Sequence fixes the output order every writer and the kinship matrix use:
// a stable sort by (pedigree, generation, family sequence, identity rank),
// with founders sorting under family sequence 0. Parents always precede
// their children, because a child's generation exceeds both parents' within
// the same pedigree.
//
// Seq is overwritten with the output position and each pedigree's Seq1 is
// set to the position of its first member.
func Sequence(c *ped.Cohort) {
	n := c.NumIndividuals()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	famSeq := func(in *ped.Individual) int {
		if in.Founder() {
			return 0
		}
		return c.Fams[in.Fam].Seq
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ia, ib := c.Inds[a], c.Inds[b]
		if v := cmp.Compare(ia.Ped, ib.Ped); v != 0 {
			return v
		}
		if v := cmp.Compare(ia.Gen, ib.Gen); v != 0 {
			return v
		}
		if v := cmp.Compare(famSeq(ia), famSeq(ib)); v != 0 {
			return v
		}
		return cmp.Compare(c.IdentityRank(a), c.IdentityRank(b))
	})

	curped := ped.Unassigned
	for pos, idx := range order {
		in := c.Inds[idx]
		in.Seq = pos
		if in.Ped != curped {
			curped = in.Ped
			c.Peds[curped].Seq1 = pos
		}
	}
	c.SetSeqOrder(order)
}
