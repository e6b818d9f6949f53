package pedio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pedkit/pedkit/pkg/ped"
)

// PedigreeSummary is one pedigree's line of the run summary.
type PedigreeSummary struct {
	NFam      int    `json:"nfam" bson:"nfam"`
	NInd      int    `json:"nind" bson:"nind"`
	NFou      int    `json:"nfou" bson:"nfou"`
	NBreakers int    `json:"nbreakers" bson:"nbreakers"`
	Inbred    bool   `json:"inbred" bson:"inbred"`
	HasLoops  bool   `json:"loops" bson:"loops"`
	Breaker   string `json:"breaker,omitempty" bson:"breaker,omitempty"`
}

// Summary holds the whole-run totals plus one entry per pedigree. A
// singleton pedigree counts as one nuclear family in the totals and in its
// own entry, the convention downstream linkage formats expect for unrelated
// individuals.
type Summary struct {
	NPed int `json:"nped" bson:"nped"`
	NFam int `json:"nfam" bson:"nfam"`
	NInd int `json:"nind" bson:"nind"`
	NFou int `json:"nfou" bson:"nfou"`

	MaxBreakers int  `json:"maxbreakers" bson:"maxbreakers"`
	Inbred      bool `json:"inbred" bson:"inbred"`

	Pedigrees []PedigreeSummary `json:"pedigrees" bson:"pedigrees"`
}

// BuildSummary derives the run summary from a fully processed cohort.
func BuildSummary(c *ped.Cohort) *Summary {
	s := &Summary{
		NPed: c.NumPedigrees(),
		NFam: c.NumFamilies(),
		NInd: c.NumIndividuals(),
		NFou: c.NumFounders(),
	}
	for _, p := range c.Peds {
		e := PedigreeSummary{
			NFam:      len(p.Fams),
			NInd:      p.NInd,
			NFou:      p.NFou,
			NBreakers: p.NBreakers,
			Inbred:    p.Inbred,
			HasLoops:  p.HasLoops,
		}
		if len(p.Fams) == 0 && p.NFou == 1 {
			e.NFam = 1
			s.NFam++
		}
		if p.Breaker != ped.Unassigned {
			e.Breaker = strings.TrimSpace(c.Inds[p.Breaker].ID)
		}
		s.MaxBreakers = max(s.MaxBreakers, p.NBreakers)
		s.Inbred = s.Inbred || p.Inbred
		s.Pedigrees = append(s.Pedigrees, e)
	}
	return s
}

// WriteText writes the summary in the classic info format: a totals line
// (pedigrees, families, individuals, founders) followed by one line per
// pedigree (families, individuals, founders, breakers, inbred y/n).
func (s *Summary) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d %d\n", s.NPed, s.NFam, s.NInd, s.NFou)
	for _, e := range s.Pedigrees {
		flag := 'n'
		if e.Inbred {
			flag = 'y'
		}
		fmt.Fprintf(bw, "%d %d %d %d %c\n", e.NFam, e.NInd, e.NFou, e.NBreakers, flag)
	}
	return bw.Flush()
}
