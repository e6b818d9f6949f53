package kinship

import (
	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/ped"
)

// Compute derives the full kinship matrix for a sequenced cohort.
//
// Monozygotic twins are collapsed first: the group member with the lowest
// output sequence becomes the representative and the recurrence runs over
// representatives only. Founders seed the diagonal with 1; each remaining
// representative is processed once both parents' representatives are done,
// filling its cross row from the parents' rows and its self value from the
// parents' kinship. Afterwards twin rows are expanded back by copying their
// representative's row.
//
// A self value above 1 marks the individual's pedigree, and the matrix, as
// inbred.
func Compute(c *ped.Cohort) (*Matrix, error) {
	order := c.SeqOrder()
	if order == nil {
		return nil, pederrors.New(pederrors.ErrCodeInternal, "kinship requires a sequenced cohort")
	}
	n := len(order)

	m := &Matrix{
		N:     n,
		Tri:   make([][]float64, n),
		ITwin: make([]int, n),
		PedOf: make([]int, n),
		FaSeq: make([]int, n),
		MoSeq: make([]int, n),
	}

	twin1 := make([]int, len(c.Twins))
	for g := range twin1 {
		twin1[g] = ped.Unassigned
	}
	for i, idx := range order {
		in := c.Inds[idx]
		m.ITwin[i] = i
		if in.Twin > 0 {
			if first := twin1[in.Twin-1]; first != ped.Unassigned {
				m.ITwin[i] = first
			} else {
				twin1[in.Twin-1] = i
			}
		}
		m.PedOf[i] = in.Ped
		m.FaSeq[i], m.MoSeq[i] = ped.Unassigned, ped.Unassigned
		if !in.Founder() {
			f := c.Fams[in.Fam]
			m.FaSeq[i] = c.Inds[f.Fa].Seq
			m.MoSeq[i] = c.Inds[f.Mo].Seq
		}
	}

	reps, done := 0, 0
	for i := 0; i < n; i++ {
		m.Tri[i] = make([]float64, i+1)
		if m.ITwin[i] == i {
			reps++
			if m.FaSeq[i] == ped.Unassigned {
				m.Tri[i][i] = 1
				done++
			}
		}
	}

	for done < reps {
		progressed := false
		for i := 0; i < n; i++ {
			if m.ITwin[i] != i || m.Tri[i][i] != 0 || m.FaSeq[i] == ped.Unassigned {
				continue
			}
			ifa := m.ITwin[m.FaSeq[i]]
			imo := m.ITwin[m.MoSeq[i]]
			if m.Tri[ifa][ifa] == 0 || m.Tri[imo][imo] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				if m.ITwin[j] != j || m.Tri[j][j] == 0 {
					continue
				}
				m.set(i, j, .5*(m.at(ifa, j)+m.at(imo, j)))
			}
			m.Tri[i][i] = 1 + .5*m.at(ifa, imo)
			done++
			progressed = true
		}
		if !progressed {
			return nil, pederrors.New(pederrors.ErrCodeInternal,
				"kinship recurrence stalled with %d of %d rows unresolved", reps-done, reps)
		}
	}

	// Expand twins: every row takes its representative's values.
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			m.Tri[i][j] = m.at(m.ITwin[i], m.ITwin[j])
		}
		m.Tri[i][i] = m.Tri[m.ITwin[i]][m.ITwin[i]]
	}

	for i := 0; i < n; i++ {
		if m.Tri[i][i] > 1 {
			m.Inbred = true
			c.Peds[m.PedOf[i]].Inbred = true
		}
	}
	return m, nil
}

func (m *Matrix) at(i, j int) float64 {
	if i < j {
		i, j = j, i
	}
	return m.Tri[i][j]
}

func (m *Matrix) set(i, j int, v float64) {
	if i < j {
		i, j = j, i
	}
	m.Tri[i][j] = v
}
