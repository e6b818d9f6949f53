// Package ped defines the pedigree entity model shared by every phase of a
// pedkit run: individuals, nuclear families, pedigrees (connected components),
// and monozygotic twin groups.
//
// All entities live in append-only arenas owned by a [Cohort]. Every
// relationship (father, mother, sibling, family membership, pedigree
// membership) is an index into the owning arena, never a pointer, so the
// mutually-referencing record graph cannot form ownership cycles. Indices are
// stable from creation to end of run; entities are never destroyed.
//
// A Cohort is filled in by a strict sequence of single-writer phases
// (ingestion, family building, generation assignment, partitioning, loop
// analysis, sequencing). Cohort is not safe for concurrent mutation.
package ped

import (
	"errors"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
)

var (
	// ErrInvalidID is returned by [Cohort.AddIndividual] when the
	// individual's ID is empty. All individuals must have identifiers.
	ErrInvalidID = errors.New("individual ID must not be empty")

	// ErrUnknownIndividual is returned by arena accessors when an index is
	// out of range. This indicates a phase-ordering bug, not bad input.
	ErrUnknownIndividual = errors.New("unknown individual index")
)

// Unassigned marks an index or ordinal field that no phase has filled in yet:
// a founder's family, an unset generation, an untraced pedigree id.
const Unassigned = -1

// Sex is the recorded sex of an individual.
type Sex int8

const (
	// SexUnknown is the missing value (blank, 0, U, or u in the input).
	SexUnknown Sex = 0
	// SexMale is coded 1, M, or m in the input.
	SexMale Sex = 1
	// SexFemale is coded 2, F, or f in the input.
	SexFemale Sex = 2
)

// String returns the single-letter code used in reports and exports.
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "M"
	case SexFemale:
		return "F"
	default:
		return "U"
	}
}

// Individual is one pedigree record. Identity fields are immutable after
// ingestion; Fam/Sib are filled by the family builder, Gen by the generation
// assigner, Ped by the partitioner, and Seq first by the identity index
// (identity rank) and finally by the sequencer (output order).
type Individual struct {
	ID     string // full identifier, family-id prefix included when configured
	PermID string // permanent identifier used for marker-file joins
	Sex    Sex
	TwinID string // raw twin-group identifier, "" when absent
	HHID   string // household identifier, "" when absent

	Fam int // owning family arena index, Unassigned for founders
	Sib int // next sibling in the family chain (parse order), Unassigned at end

	Twin int // 1-based twin-group number, 0 when not a twin
	Gen  int // generation depth, founders 0, Unassigned until assigned
	Ped  int // pedigree id, Unassigned until partitioned
	Seq  int // output sequence number
}

// Founder reports whether the individual has no recorded parents.
func (in *Individual) Founder() bool { return in.Fam == Unassigned }

// Family is a nuclear family: exactly one father and one mother, and the
// chain of their common children in parse order. Fa and Mo reference the
// individual arena by identity, never by ownership.
type Family struct {
	Fa    int // father individual index
	Mo    int // mother individual index
	Kid1  int // first child, Unassigned if the couple has no recorded children
	NKids int

	Ped int // pedigree id, Unassigned until partitioned
	Seq int // family sequence within its pedigree
}

// Pedigree is a maximal connected set of families plus any unrelated
// individual (a singleton pedigree with one founder and no families).
type Pedigree struct {
	Fams []int // member family indices, in family-arena order

	NInd int // member individuals
	NFou int // member founders
	Seq1 int // offset of the pedigree's first individual in the global sequence

	HasLoops  bool
	Inbred    bool
	NBreakers int // loop-breakers required to make the pedigree acyclic
	Breaker   int // candidate individual when exactly one breaker is required, else Unassigned
}

// TwinGroup is a set of genetically identical individuals. Members must share
// sex and family; the group equates their kinship rows.
type TwinGroup struct {
	ID  string
	Sex Sex
	Fam int // owning family index, Unassigned when the twins are founders
}

// Limits bound the arena sizes. Exceeding a limit is immediately fatal; no
// partial output is valid past that point.
type Limits struct {
	MaxIndividuals int
	MaxFamilies    int
	MaxPedigrees   int
	MaxTwinGroups  int
}

// DefaultLimits match the capacity of downstream linkage formats that index
// entities with 16-bit-adjacent counters.
var DefaultLimits = Limits{
	MaxIndividuals: 210000,
	MaxFamilies:    210000,
	MaxPedigrees:   210000,
	MaxTwinGroups:  210000,
}

// Cohort owns the entity arenas for one pedigree data set.
//
// The zero value is not usable - use [NewCohort].
type Cohort struct {
	Inds  []*Individual
	Fams  []*Family
	Peds  []*Pedigree
	Twins []*TwinGroup

	idSort   []int // individual indices in identity order
	idRank   []int // identity rank per individual index (inverse of idSort)
	permSort []int // individual indices in permanent-id order
	seqOrder []int // individual indices in final output order

	limits Limits
}

// NewCohort creates an empty cohort. Zero limit fields fall back to
// [DefaultLimits].
func NewCohort(limits Limits) *Cohort {
	if limits.MaxIndividuals == 0 {
		limits.MaxIndividuals = DefaultLimits.MaxIndividuals
	}
	if limits.MaxFamilies == 0 {
		limits.MaxFamilies = DefaultLimits.MaxFamilies
	}
	if limits.MaxPedigrees == 0 {
		limits.MaxPedigrees = DefaultLimits.MaxPedigrees
	}
	if limits.MaxTwinGroups == 0 {
		limits.MaxTwinGroups = DefaultLimits.MaxTwinGroups
	}
	return &Cohort{limits: limits}
}

// AddIndividual appends an individual and returns its arena index.
// Relationship fields (Fam, Sib, Ped) start Unassigned regardless of what the
// caller passes; Gen must be set by the caller (founders 0, others Unassigned).
func (c *Cohort) AddIndividual(in Individual) (int, error) {
	if in.ID == "" {
		return Unassigned, ErrInvalidID
	}
	if len(c.Inds) >= c.limits.MaxIndividuals {
		return Unassigned, pederrors.New(pederrors.ErrCodeLimitExceeded,
			"too many individuals, limit = %d", c.limits.MaxIndividuals)
	}
	in.Fam = Unassigned
	in.Sib = Unassigned
	in.Ped = Unassigned
	c.Inds = append(c.Inds, &in)
	c.idSort = nil
	c.idRank = nil
	c.permSort = nil
	return len(c.Inds) - 1, nil
}

// AddFamily appends a family and returns its arena index.
func (c *Cohort) AddFamily(f Family) (int, error) {
	if len(c.Fams) >= c.limits.MaxFamilies {
		return Unassigned, pederrors.New(pederrors.ErrCodeLimitExceeded,
			"too many families, limit = %d", c.limits.MaxFamilies)
	}
	if f.Kid1 == 0 {
		f.Kid1 = Unassigned
	}
	if f.Ped == 0 {
		f.Ped = Unassigned
	}
	c.Fams = append(c.Fams, &f)
	return len(c.Fams) - 1, nil
}

// AddPedigree appends a pedigree and returns its arena index.
func (c *Cohort) AddPedigree(p Pedigree) (int, error) {
	if len(c.Peds) >= c.limits.MaxPedigrees {
		return Unassigned, pederrors.New(pederrors.ErrCodeLimitExceeded,
			"too many pedigrees, limit = %d", c.limits.MaxPedigrees)
	}
	if p.Breaker == 0 {
		p.Breaker = Unassigned
	}
	c.Peds = append(c.Peds, &p)
	return len(c.Peds) - 1, nil
}

// AddTwinGroup appends a twin group and returns its 1-based group number,
// the value stored in [Individual.Twin].
func (c *Cohort) AddTwinGroup(t TwinGroup) (int, error) {
	if len(c.Twins) >= c.limits.MaxTwinGroups {
		return 0, pederrors.New(pederrors.ErrCodeLimitExceeded,
			"too many MZ twin groups, limit = %d", c.limits.MaxTwinGroups)
	}
	c.Twins = append(c.Twins, &t)
	return len(c.Twins), nil
}

// NumIndividuals returns the individual count.
func (c *Cohort) NumIndividuals() int { return len(c.Inds) }

// NumFamilies returns the family count.
func (c *Cohort) NumFamilies() int { return len(c.Fams) }

// NumPedigrees returns the pedigree count.
func (c *Cohort) NumPedigrees() int { return len(c.Peds) }

// NumFounders counts individuals with no recorded parents.
func (c *Cohort) NumFounders() int {
	n := 0
	for _, in := range c.Inds {
		if in.Founder() {
			n++
		}
	}
	return n
}

// Parents returns the father and mother indices of the individual, or
// (Unassigned, Unassigned) for a founder.
func (c *Cohort) Parents(i int) (fa, mo int) {
	in := c.Inds[i]
	if in.Founder() {
		return Unassigned, Unassigned
	}
	f := c.Fams[in.Fam]
	return f.Fa, f.Mo
}

// Children returns the child indices of the family in parse order by walking
// the sibling chain.
func (c *Cohort) Children(fam int) []int {
	f := c.Fams[fam]
	kids := make([]int, 0, f.NKids)
	for k := f.Kid1; k != Unassigned; k = c.Inds[k].Sib {
		kids = append(kids, k)
	}
	return kids
}

// SeqOrder returns individual indices in final output order, or nil before
// the sequencer has run.
func (c *Cohort) SeqOrder() []int { return c.seqOrder }

// SetSeqOrder installs the final output order. Only the sequencer calls this.
func (c *Cohort) SetSeqOrder(order []int) { c.seqOrder = order }
