// Package build turns ingested records into nuclear families and twin groups.
package build

import (
	"slices"
	"strings"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/ped"
	"github.com/pedkit/pedkit/pkg/ped/parse"
)

// maxRebuilds bounds the synthesize-and-rebuild loop. One rebuild always
// suffices because synthesized parents are founders and can never name
// further missing parents; the loop re-validates the fixed point instead of
// assuming it.
const maxRebuilds = 4

// Families groups records into nuclear families keyed by (father id,
// mother id) and attaches every child to its family's sibling chain in
// parse order.
//
// A parent id that matches no record is recoverable: the parent is
// synthesized as a founder with the sex its role implies, a warning is
// recorded, and the identity index and grouping are rebuilt. A parent whose
// recorded sex contradicts its role is corrected with a warning. Duplicate
// ids surface through the identity sort and abort at the checkpoint.
func Families(res *parse.Result, rep *ped.Report) error {
	c := res.Cohort
	numeric := res.Layout.Numeric

	for pass := 0; pass < maxRebuilds; pass++ {
		c.SortByID(numeric, rep)
		if err := rep.Checkpoint(); err != nil {
			return err
		}

		pairs := distinctPairs(res.Parents)

		// The same missing parent can appear in several pairs; added
		// tracks ids synthesized this pass so each gets one record.
		added := map[string]bool{}
		for _, p := range pairs {
			if c.FindID(p.Fa, numeric) == ped.Unassigned && !added[p.Fa] {
				if err := synthesize(res, p.Fa, ped.SexMale, "father", rep); err != nil {
					return err
				}
				added[p.Fa] = true
			}
			if c.FindID(p.Mo, numeric) == ped.Unassigned && !added[p.Mo] {
				if err := synthesize(res, p.Mo, ped.SexFemale, "mother", rep); err != nil {
					return err
				}
				added[p.Mo] = true
			}
		}
		if len(added) > 0 {
			continue
		}

		return link(res, pairs, rep)
	}
	return pederrors.New(pederrors.ErrCodeInternal,
		"family construction did not converge after %d passes", maxRebuilds)
}

// distinctPairs returns the distinct parent pairs in identifier order.
// Family indices are assigned in this order, so family numbering is a
// function of the data, not of record order.
func distinctPairs(parents []parse.ParentPair) []parse.ParentPair {
	pairs := make([]parse.ParentPair, 0, len(parents))
	for _, p := range parents {
		if p != (parse.ParentPair{}) {
			pairs = append(pairs, p)
		}
	}
	slices.SortFunc(pairs, func(a, b parse.ParentPair) int {
		if c := strings.Compare(a.Fa, b.Fa); c != 0 {
			return c
		}
		return strings.Compare(a.Mo, b.Mo)
	})
	return slices.Compact(pairs)
}

func synthesize(res *parse.Result, id string, sex ped.Sex, role string, rep *ped.Report) error {
	rep.Warnf("record added for %s, ID=%q", role, strings.TrimSpace(id))
	_, err := res.Cohort.AddIndividual(ped.Individual{
		ID:     id,
		PermID: id,
		Sex:    sex,
		Gen:    0,
	})
	if err != nil {
		return err
	}
	res.Parents = append(res.Parents, parse.ParentPair{})
	return nil
}

// link creates one family per distinct pair and chains the children.
// Every parent resolves at this point.
func link(res *parse.Result, pairs []parse.ParentPair, rep *ped.Report) error {
	c := res.Cohort
	numeric := res.Layout.Numeric

	fams := make(map[parse.ParentPair]int, len(pairs))
	for _, p := range pairs {
		fa := c.FindID(p.Fa, numeric)
		mo := c.FindID(p.Mo, numeric)
		checkParentSex(c.Inds[fa], ped.SexMale, "father", rep)
		checkParentSex(c.Inds[mo], ped.SexFemale, "mother", rep)
		idx, err := c.AddFamily(ped.Family{Fa: fa, Mo: mo})
		if err != nil {
			return err
		}
		fams[p] = idx
	}

	tails := make([]int, len(c.Fams))
	for i := range tails {
		tails[i] = ped.Unassigned
	}
	for i, p := range res.Parents {
		if p == (parse.ParentPair{}) {
			continue
		}
		famIdx := fams[p]
		f := c.Fams[famIdx]
		in := c.Inds[i]
		in.Fam = famIdx
		in.Sib = ped.Unassigned
		if f.Kid1 == ped.Unassigned {
			f.Kid1 = i
		} else {
			c.Inds[tails[famIdx]].Sib = i
		}
		tails[famIdx] = i
		f.NKids++
	}
	return rep.Checkpoint()
}

func checkParentSex(in *ped.Individual, want ped.Sex, role string, rep *ped.Report) {
	if in.Sex == want {
		return
	}
	sexName := "male"
	if want == ped.SexFemale {
		sexName = "female"
	}
	rep.Warnf("sex code changed to %s for %s, ID=%q", sexName, role, strings.TrimSpace(in.ID))
	in.Sex = want
}
