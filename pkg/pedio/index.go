package pedio

import (
	"bufio"
	"fmt"
	"io"
)

// WriteIndex writes the sequenced index in the classic fixed-column text
// format, one line per individual in output order:
//
//	seq faseq moseq sex twin ped gen id
//
// Sequence numbers are 1-based with 0 for a founder's parents; sex is the
// numeric code (1 male, 2 female, 0 unknown).
func (m *Model) WriteIndex(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, in := range m.Individuals {
		fmt.Fprintf(bw, "%8d %8d %8d %1d %5d %8d %8d %s\n",
			in.Seq, in.FaSeq, in.MoSeq, sexCode(in.Sex), in.Twin,
			in.Ped, in.Gen, in.ID)
	}
	return bw.Flush()
}

func sexCode(s string) int {
	switch s {
	case "M":
		return 1
	case "F":
		return 2
	}
	return 0
}
