// Package kinship computes pairwise kinship coefficients (phi2) and the
// probability of sharing both alleles identical by descent (delta7) over a
// sequenced cohort.
package kinship

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pedkit/pedkit/pkg/ped"
)

// Matrix holds the kinship results addressed by output sequence number. The
// coefficient table is lower-triangular: Tri[i][j] with j <= i is twice the
// kinship coefficient of the pair, and Tri[i][i] the self value (1 for
// non-inbred individuals, 1 + phi2(fa,mo)/2 otherwise).
//
// The type is plain data with exported fields so completed matrices can be
// cached and archived without recomputation.
type Matrix struct {
	N     int         `json:"n" bson:"n"`
	Tri   [][]float64 `json:"tri" bson:"tri"`
	ITwin []int       `json:"itwin" bson:"itwin"` // representative seq per seq; co-twins share one
	PedOf []int       `json:"pedof" bson:"pedof"` // pedigree id per seq
	FaSeq []int       `json:"faseq" bson:"faseq"` // father's seq per seq, Unassigned for founders
	MoSeq []int       `json:"moseq" bson:"moseq"`

	Inbred bool `json:"inbred" bson:"inbred"` // any self value above 1
}

// Phi2 returns twice the kinship coefficient for output sequences i and j.
func (m *Matrix) Phi2(i, j int) float64 {
	if i < j {
		i, j = j, i
	}
	return m.Tri[i][j]
}

// Delta7 returns the probability that i and j share both alleles identical
// by descent: 1 for co-twins (and self), the double-first-cousin style
// product over both parent pairings when both have recorded parents, and 0
// otherwise.
func (m *Matrix) Delta7(i, j int) float64 {
	if m.ITwin[i] == m.ITwin[j] {
		return 1
	}
	if m.FaSeq[i] == ped.Unassigned || m.FaSeq[j] == ped.Unassigned {
		return 0
	}
	ifa, imo := m.FaSeq[i], m.MoSeq[i]
	jfa, jmo := m.FaSeq[j], m.MoSeq[j]
	return .25 * (m.Phi2(ifa, jfa)*m.Phi2(imo, jmo) +
		m.Phi2(ifa, jmo)*m.Phi2(imo, jfa))
}

// WritePhi2 writes the matrix in the phi2 file format: one line per related
// pair, 1-based sequence numbers, phi2 then delta7. Cross pairs with zero
// phi2 are omitted; the self line is always present with delta7 1.
func (m *Matrix) WritePhi2(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < m.N; i++ {
		for j := 0; j < i; j++ {
			if m.PedOf[i] != m.PedOf[j] {
				continue
			}
			if m.Tri[i][j] == 0 {
				continue
			}
			fmt.Fprintf(bw, "%8d %8d %10.7f %10.7f\n", i+1, j+1, m.Tri[i][j], m.Delta7(i, j))
		}
		fmt.Fprintf(bw, "%8d %8d %10.7f %10.7f\n", i+1, i+1, m.Tri[i][i], 1.)
	}
	return bw.Flush()
}

// Marshal serializes the matrix for caching.
func (m *Matrix) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal deserializes a cached matrix.
func Unmarshal(data []byte) (*Matrix, error) {
	var m Matrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
