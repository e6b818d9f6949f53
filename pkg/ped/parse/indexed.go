package parse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
	"github.com/pedkit/pedkit/pkg/ped"
)

// Pre-indexed input: records whose identifiers are already 1-based sequence
// numbers, each parent referring to an earlier record and zero meaning no
// parent. Fields are whitespace-separated:
//
//	seq fa mo sex [twinid [hhid [permid]]]
//
// Because parents always precede their children, resolution happens during
// the scan and no rebuild pass is needed.

// IndexedFile ingests a pre-indexed pedigree file.
func IndexedFile(path string, limits ped.Limits, rep *ped.Report) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pederrors.Wrap(pederrors.ErrCodeFileNotFound, err, "pedigree file %s not found", path)
		}
		return nil, pederrors.Wrap(pederrors.ErrCodeInternal, err, "failed to open pedigree file %s", path)
	}
	defer f.Close()
	return Indexed(f, limits, rep)
}

// Indexed ingests pre-indexed pedigree records from r. Any indexing defect -
// a sequence number that is not the line number, or a parent reference at or
// past the current record - is immediately fatal: the file was supposed to be
// machine-generated and cannot be partially trusted.
func Indexed(r io.Reader, limits ped.Limits, rep *ped.Report) (*Result, error) {
	c := ped.NewCohort(limits)
	res := &Result{Cohort: c}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 4 {
			return nil, pederrors.New(pederrors.ErrCodeInvalidRecord,
				"line %d: expected at least 4 fields, got %d", lineNo, len(fields))
		}

		seq, err := atoi(fields[0], lineNo, "seq")
		if err != nil {
			return nil, err
		}
		fa, err := atoi(fields[1], lineNo, "fa")
		if err != nil {
			return nil, err
		}
		mo, err := atoi(fields[2], lineNo, "mo")
		if err != nil {
			return nil, err
		}
		if seq != lineNo {
			return nil, pederrors.New(pederrors.ErrCodeNotIndexed,
				"pedigree file is not correctly indexed: record %d has seq %d", lineNo, seq)
		}
		if fa < 0 || mo < 0 || fa >= seq || mo >= seq {
			return nil, pederrors.New(pederrors.ErrCodeNotIndexed,
				"pedigree file is not correctly indexed: record %d refers to parents (%d, %d)",
				lineNo, fa, mo)
		}
		if (fa == 0) != (mo == 0) {
			rep.Errorf("individual %d: father and mother must both be known or both unknown", seq)
			fa, mo = 0, 0
		}

		sex, err := ParseSex(fields[3])
		if err != nil {
			rep.Errorf("individual %d: %s", seq, pederrors.UserMessage(err))
		}

		in := ped.Individual{
			ID:     fmt.Sprintf("%d", seq),
			PermID: fmt.Sprintf("%d", seq),
			Sex:    sex,
			Gen:    ped.Unassigned,
		}
		if fa == 0 {
			in.Gen = 0
		}
		if len(fields) > 4 && !Unknown(fields[4]) {
			in.TwinID = fields[4]
		}
		if len(fields) > 5 && !Unknown(fields[5]) {
			in.HHID = fields[5]
		}
		if len(fields) > 6 {
			in.PermID = fields[6]
		}
		if _, err := c.AddIndividual(in); err != nil {
			return nil, err
		}

		var pair ParentPair
		if fa != 0 {
			// Parent ids are recovered from the earlier records so the
			// family builder resolves them like any other input.
			pair = ParentPair{Fa: c.Inds[fa-1].ID, Mo: c.Inds[mo-1].ID}
		}
		res.Parents = append(res.Parents, pair)
	}
	if err := sc.Err(); err != nil {
		return nil, pederrors.Wrap(pederrors.ErrCodeInternal, err, "failed reading pedigree records")
	}

	if err := rep.Checkpoint(); err != nil {
		return nil, err
	}
	res.Layout = Layout{ID: idWidth(lineNo), Sex: 1, Numeric: true}
	return res, nil
}

func atoi(s string, lineNo int, field string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, pederrors.New(pederrors.ErrCodeInvalidRecord,
			"line %d: %s field %q is not an integer", lineNo, field, s)
	}
	return n, nil
}

func idWidth(n int) int {
	w := 1
	for n >= 10 {
		n /= 10
		w++
	}
	return w
}
