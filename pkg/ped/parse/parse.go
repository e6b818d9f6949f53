package parse

import (
	"bufio"
	"io"
	"os"
	"strings"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/ped"
)

// ParentPair holds the raw parent identifiers of one record, family prefix
// included. Both fields are empty for founders. The family builder resolves
// these against the identity index after ingestion; resolution cannot happen
// during the scan because parents may appear later in the file.
type ParentPair struct {
	Fa string
	Mo string
}

// Result is the outcome of ingestion: the populated cohort plus the parent
// pairs, parallel to Cohort.Inds.
type Result struct {
	Cohort  *ped.Cohort
	Parents []ParentPair
	Layout  Layout
}

// File ingests a fixed-width pedigree file.
func File(path string, layout Layout, limits ped.Limits, rep *ped.Report) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pederrors.Wrap(pederrors.ErrCodeFileNotFound, err, "pedigree file %s not found", path)
		}
		return nil, pederrors.Wrap(pederrors.ErrCodeInternal, err, "failed to open pedigree file %s", path)
	}
	defer f.Close()
	return Records(f, layout, limits, rep)
}

// Records ingests fixed-width pedigree records from r.
//
// Field-level problems (bad sex codes, half-specified parents, self-parents)
// accumulate on rep and the scan continues, so one pass reports every bad
// record. A wrong record width is fatal immediately: column positions are
// meaningless from that line on. The accumulated errors become fatal at the
// checkpoint before returning.
func Records(r io.Reader, layout Layout, limits ped.Limits, rep *ped.Report) (*Result, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	c := ped.NewCohort(limits)
	res := &Result{Cohort: c, Layout: layout}
	want := layout.RecordLen()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if len(line) != want {
			return nil, pederrors.New(pederrors.ErrCodeInvalidRecord,
				"incorrect record length, line %d of pedigree file (%d characters, expected %d)",
				lineNo, len(line), want)
		}

		pos := 0
		famid := cut(line, &pos, layout.FamID)
		rawID := cut(line, &pos, layout.ID)
		rawFa := cut(line, &pos, layout.ID)
		rawMo := cut(line, &pos, layout.ID)
		sexField := cut(line, &pos, layout.Sex)
		twin := cut(line, &pos, layout.TwinID)
		hhid := cut(line, &pos, layout.HHID)

		if Unknown(rawID) {
			rep.Errorf("line %d: individual id is blank", lineNo)
			continue
		}

		// Identifiers keep their raw field padding. Prefixing the raw
		// famid field onto the raw id keeps every key the same width,
		// so distinct (famid, id) pairs can never collide.
		id := famid + rawID
		faKnown, moKnown := !Unknown(rawFa), !Unknown(rawMo)

		var pair ParentPair
		if faKnown || moKnown {
			ok := true
			if faKnown != moKnown {
				rep.Errorf("both parents must be known or unknown, ID=%q",
					strings.TrimSpace(id))
				ok = false
			}
			fa, mo := famid+rawFa, famid+rawMo
			if fa == id {
				rep.Errorf("individual has same ID as father, ID=%q", strings.TrimSpace(id))
				ok = false
			}
			if mo == id {
				rep.Errorf("individual has same ID as mother, ID=%q", strings.TrimSpace(id))
				ok = false
			}
			if fa == mo {
				rep.Errorf("father has same ID as mother, ID=%q", strings.TrimSpace(id))
				ok = false
			}
			if ok {
				pair = ParentPair{Fa: fa, Mo: mo}
			}
		}

		sex, err := ParseSex(sexField)
		if err != nil {
			rep.Errorf("%s, ID=%q", pederrors.UserMessage(err), strings.TrimSpace(id))
		}

		in := ped.Individual{
			ID:     id,
			PermID: rawID,
			Sex:    sex,
			Gen:    ped.Unassigned,
		}
		if pair == (ParentPair{}) {
			in.Gen = 0
		}
		if !Unknown(twin) {
			in.TwinID = strings.TrimSpace(twin)
		}
		if !Unknown(hhid) {
			in.HHID = strings.TrimSpace(hhid)
		}
		if _, err := c.AddIndividual(in); err != nil {
			return nil, err
		}
		res.Parents = append(res.Parents, pair)
	}
	if err := sc.Err(); err != nil {
		return nil, pederrors.Wrap(pederrors.ErrCodeInternal, err, "failed reading pedigree records")
	}

	if err := rep.Checkpoint(); err != nil {
		return nil, err
	}
	return res, nil
}

func cut(line string, pos *int, width int) string {
	s := line[*pos : *pos+width]
	*pos += width
	return s
}

// Unknown reports whether an identifier field is the missing value: every
// character a space, tab, or zero. The empty field is unknown.
func Unknown(field string) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case ' ', '\t', '0':
		default:
			return false
		}
	}
	return true
}

// ParseSex decodes a sex field: the first non-blank character, with a blank
// field meaning unknown.
func ParseSex(field string) (ped.Sex, error) {
	var code byte
	for i := 0; i < len(field); i++ {
		if field[i] != ' ' && field[i] != '\t' {
			code = field[i]
			break
		}
	}
	switch code {
	case '1', 'M', 'm':
		return ped.SexMale, nil
	case '2', 'F', 'f':
		return ped.SexFemale, nil
	case 0, '0', 'U', 'u':
		return ped.SexUnknown, nil
	}
	return ped.SexUnknown, pederrors.New(pederrors.ErrCodeInvalidSex,
		"sex must be coded (1,2,0), (M,F,U), or (m,f,u)")
}
