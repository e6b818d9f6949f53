// Package pedio serializes completed pedigree models: a JSON document for
// downstream tools and caching, the classic sequenced-index text format, and
// the per-run summary.
package pedio

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pedkit/pedkit/pkg/ped"
)

// Individual is one sequenced record of the exported model. Sequence numbers
// are 1-based; 0 means none (a founder's parents).
type Individual struct {
	Seq    int    `json:"seq" bson:"seq"`
	ID     string `json:"id" bson:"id"`
	PermID string `json:"permid,omitempty" bson:"permid,omitempty"`
	Sex    string `json:"sex" bson:"sex"`
	FaSeq  int    `json:"fa" bson:"fa"`
	MoSeq  int    `json:"mo" bson:"mo"`
	Twin   int    `json:"twin,omitempty" bson:"twin,omitempty"`
	HHID   string `json:"hhid,omitempty" bson:"hhid,omitempty"`
	Gen    int    `json:"gen" bson:"gen"`
	Ped    int    `json:"ped" bson:"ped"` // 1-based pedigree number
}

// Family is one nuclear family of the exported model.
type Family struct {
	Seq   int   `json:"seq" bson:"seq"` // pedigree-local, 0-based
	Ped   int   `json:"ped" bson:"ped"`
	FaSeq int   `json:"fa" bson:"fa"`
	MoSeq int   `json:"mo" bson:"mo"`
	Kids  []int `json:"kids" bson:"kids"` // child seqs in record order
}

// Pedigree is one connected component of the exported model.
type Pedigree struct {
	Ped       int  `json:"ped" bson:"ped"`
	NFam      int  `json:"nfam" bson:"nfam"`
	NInd      int  `json:"nind" bson:"nind"`
	NFou      int  `json:"nfou" bson:"nfou"`
	Seq1      int  `json:"seq1" bson:"seq1"`
	HasLoops  bool `json:"loops" bson:"loops"`
	NBreakers int  `json:"nbreakers" bson:"nbreakers"`
	Breaker   int  `json:"breaker,omitempty" bson:"breaker,omitempty"` // seq of the candidate, 0 if none
	Inbred    bool `json:"inbred" bson:"inbred"`
}

// TwinGroup is one monozygotic group of the exported model.
type TwinGroup struct {
	Num int    `json:"num" bson:"num"`
	ID  string `json:"id" bson:"id"`
	Sex string `json:"sex" bson:"sex"`
}

// Model is the complete exported form of a processed cohort, ordered by
// output sequence so serialization is deterministic.
type Model struct {
	Individuals []Individual `json:"individuals" bson:"individuals"`
	Families    []Family     `json:"families" bson:"families"`
	Pedigrees   []Pedigree   `json:"pedigrees" bson:"pedigrees"`
	Twins       []TwinGroup  `json:"twins,omitempty" bson:"twins,omitempty"`
}

// FromCohort builds the exported model from a fully processed cohort. The
// cohort must be sequenced.
func FromCohort(c *ped.Cohort) *Model {
	m := &Model{}
	for _, idx := range c.SeqOrder() {
		in := c.Inds[idx]
		rec := Individual{
			Seq:    in.Seq + 1,
			ID:     strings.TrimSpace(in.ID),
			PermID: strings.TrimSpace(in.PermID),
			Sex:    in.Sex.String(),
			Twin:   in.Twin,
			HHID:   in.HHID,
			Gen:    in.Gen,
			Ped:    in.Ped + 1,
		}
		if !in.Founder() {
			f := c.Fams[in.Fam]
			rec.FaSeq = c.Inds[f.Fa].Seq + 1
			rec.MoSeq = c.Inds[f.Mo].Seq + 1
		}
		m.Individuals = append(m.Individuals, rec)
	}
	for fi, f := range c.Fams {
		fam := Family{
			Seq:   f.Seq,
			Ped:   f.Ped + 1,
			FaSeq: c.Inds[f.Fa].Seq + 1,
			MoSeq: c.Inds[f.Mo].Seq + 1,
		}
		for _, kid := range c.Children(fi) {
			fam.Kids = append(fam.Kids, c.Inds[kid].Seq+1)
		}
		m.Families = append(m.Families, fam)
	}
	for pi, p := range c.Peds {
		rec := Pedigree{
			Ped:       pi + 1,
			NFam:      len(p.Fams),
			NInd:      p.NInd,
			NFou:      p.NFou,
			Seq1:      p.Seq1,
			HasLoops:  p.HasLoops,
			NBreakers: p.NBreakers,
			Inbred:    p.Inbred,
		}
		if p.Breaker != ped.Unassigned {
			rec.Breaker = c.Inds[p.Breaker].Seq + 1
		}
		m.Pedigrees = append(m.Pedigrees, rec)
	}
	for num, t := range c.Twins {
		m.Twins = append(m.Twins, TwinGroup{
			Num: num + 1,
			ID:  t.ID,
			Sex: t.Sex.String(),
		})
	}
	return m
}

// Marshal serializes the model as indented JSON.
func (m *Model) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// Unmarshal deserializes a model.
func Unmarshal(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Write writes the model as JSON to w.
func (m *Model) Write(w io.Writer) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes the model as JSON to path.
func (m *Model) WriteFile(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a model from a JSON file.
func ReadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
