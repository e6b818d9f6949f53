package build

import (
	"github.com/pedkit/pedkit/pkg/ped"
)

// Twins registers monozygotic twin groups from the twin-id field. Members of
// one group must share sex and parents; a mismatch is a data error because it
// contradicts the premise that the group is genetically identical. Must run
// after [Families] so group membership can be checked against families.
func Twins(c *ped.Cohort, rep *ped.Report) error {
	groups := map[string]int{} // twin id -> 1-based group number
	for _, in := range c.Inds {
		if in.TwinID == "" {
			continue
		}
		if num, ok := groups[in.TwinID]; ok {
			g := c.Twins[num-1]
			if g.Sex != in.Sex {
				rep.Errorf("MZ twins of different sex, twin ID = [%s]", in.TwinID)
			}
			if g.Fam != in.Fam {
				rep.Errorf("MZ twins not in same family, twin ID = [%s]", in.TwinID)
			}
			in.Twin = num
			continue
		}
		num, err := c.AddTwinGroup(ped.TwinGroup{ID: in.TwinID, Sex: in.Sex, Fam: in.Fam})
		if err != nil {
			return err
		}
		groups[in.TwinID] = num
		in.Twin = num
	}
	return rep.Checkpoint()
}
