package transform

import (
	"github.com/pedkit/pedkit/pkg/ped"
)

// Loop analysis. A pedigree's membership graph is bipartite: an arc from
// each family to its father, mother, and every child. A loop-free pedigree
// is a tree of that graph, so arcs = individuals + families - 1; anything
// denser contains marriage rings or consanguinity and needs loop-breakers.
//
// The breaker count is the circuit rank of the reduced graph: families as
// nodes, connected when they share an individual (a parent who is a child of
// another family, or a parent shared between two families). Tree branches
// are stripped off by repeatedly removing families attached through a single
// linking individual; what remains is the loop core.

// link is one arc of a family's link list: the neighboring family and the
// identity rank of the individual connecting them.
type link struct {
	fam int // pedigree-local family sequence of the neighbor
	ind int // identity rank of the connecting individual
}

// Loops analyzes every pedigree, setting HasLoops, NBreakers, and (when
// exactly one breaker suffices) the Breaker candidate. It returns the
// maximum breaker count over all pedigrees.
//
// Link lists are keyed by identity rank, so this must run after the identity
// sort and before Sequence overwrites Seq with the output order.
func Loops(c *ped.Cohort) int {
	n := c.NumIndividuals()
	linkInd := make([]int, n)

	maxBreakers := 0
	for _, p := range c.Peds {
		narcs := 0
		for _, fi := range p.Fams {
			narcs += c.Fams[fi].NKids + 2
		}
		if narcs < p.NInd+len(p.Fams) {
			p.HasLoops = false
			p.NBreakers = 0
			continue
		}
		p.HasLoops = true

		clear(linkInd)
		links := makeLinks(c, p, linkInd)
		stripLeaves(links, linkInd)
		p.NBreakers = countBreakers(links, linkInd)
		maxBreakers = max(maxBreakers, p.NBreakers)

		if p.NBreakers == 1 {
			p.Breaker = breakerCandidate(c, links, linkInd)
		}
	}
	return maxBreakers
}

// makeLinks builds the per-family link lists of one pedigree. Each list
// counts arcs; nlink (tracked as the number of distinct linking individuals
// per family) lives implicitly in the lists and is recomputed by callers via
// distinctInds.
func makeLinks(c *ped.Cohort, p *ped.Pedigree, linkInd []int) [][]link {
	links := make([][]link, len(p.Fams))
	addBoth := func(f1, f2, rank int) {
		addLink(links, linkInd, f1, f2, rank)
		addLink(links, linkInd, f2, f1, rank)
	}
	for i, fi := range p.Fams {
		f := c.Fams[fi]
		if fa := c.Inds[f.Fa]; !fa.Founder() {
			addBoth(f.Seq, c.Fams[fa.Fam].Seq, c.IdentityRank(f.Fa))
		}
		if mo := c.Inds[f.Mo]; !mo.Founder() {
			addBoth(f.Seq, c.Fams[mo.Fam].Seq, c.IdentityRank(f.Mo))
		}
		for _, fj := range p.Fams[:i] {
			f2 := c.Fams[fj]
			if f2.Fa == f.Fa {
				addBoth(f.Seq, f2.Seq, c.IdentityRank(f2.Fa))
			}
			if f2.Mo == f.Mo {
				addBoth(f.Seq, f2.Seq, c.IdentityRank(f2.Mo))
			}
		}
	}
	return links
}

func addLink(links [][]link, linkInd []int, f1, f2, rank int) {
	links[f1] = append(links[f1], link{fam: f2, ind: rank})
	linkInd[rank]++
}

// distinctInds is the family's nlink: distinct linking individuals.
func distinctInds(list []link) int {
	n := 0
	for i, l := range list {
		seen := false
		for _, prev := range list[:i] {
			if prev.ind == l.ind {
				seen = true
				break
			}
		}
		if !seen {
			n++
		}
	}
	return n
}

// stripLeaves removes families linked through a single individual until none
// remain: each removal drops both directions of the family's arcs and may
// turn a neighbor into the next leaf.
func stripLeaves(links [][]link, linkInd []int) {
	for {
		done := true
		for i := range links {
			if distinctInds(links[i]) != 1 {
				continue
			}
			for j := range links {
				rmLink(links, linkInd, j, i)
			}
			for _, l := range links[i] {
				linkInd[l.ind]--
			}
			links[i] = nil
			done = false
		}
		if done {
			return
		}
	}
}

// rmLink removes the first arc from family f1 to family f2, if any.
func rmLink(links [][]link, linkInd []int, f1, f2 int) {
	list := links[f1]
	if len(list) == 0 {
		return
	}
	for k, l := range list {
		if l.fam != f2 {
			continue
		}
		linkInd[l.ind]--
		links[f1] = append(list[:k:k], list[k+1:]...)
		return
	}
}

// countBreakers computes circuit rank on the stripped residue: arcs counted
// as distinct linking individuals per family, nodes as linked families plus
// linked individuals. An empty residue needs no breakers.
func countBreakers(links [][]link, linkInd []int) int {
	narcs, nodes := 0, 0
	for i := range links {
		if nl := distinctInds(links[i]); nl > 0 {
			narcs += nl
			nodes++
		}
	}
	for _, deg := range linkInd {
		if deg > 0 {
			nodes++
		}
	}
	if narcs < nodes {
		return 0
	}
	return narcs - nodes + 1
}

// breakerCandidate picks the first individual in identity order that still
// links a surviving family, the conventional choice when one breaker
// suffices.
func breakerCandidate(c *ped.Cohort, links [][]link, linkInd []int) int {
	order := c.IdentityOrder()
	for rank, deg := range linkInd {
		if deg <= 0 {
			continue
		}
		idx := order[rank]
		in := c.Inds[idx]
		if in.Founder() {
			continue
		}
		if distinctInds(links[c.Fams[in.Fam].Seq]) > 0 {
			return idx
		}
	}
	return ped.Unassigned
}
