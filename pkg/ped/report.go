package ped

import (
	"fmt"
	"io"
	"os"
	"strings"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
)

// Default report filenames, written next to the input data.
const (
	ErrorFileName   = "pedkit.err"
	WarningFileName = "pedkit.wrn"
)

// Report accumulates validation findings across phases. Warnings describe
// recoverable anomalies the run corrected (a synthesized parent, a changed
// sex code); errors describe records that cannot be used. Errors do not stop
// the phase that records them - phases run to completion so the report covers
// the whole input - but any accumulated error makes the next [Report.Checkpoint]
// fatal.
type Report struct {
	ErrFile string // error log name used in the checkpoint message
	WrnFile string

	warnings []string
	errors   []string
}

// NewReport creates a report using the default log filenames.
func NewReport() *Report {
	return &Report{ErrFile: ErrorFileName, WrnFile: WarningFileName}
}

// Warnf records a recoverable anomaly.
func (r *Report) Warnf(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// Errorf records a data error. The run aborts at the next checkpoint.
func (r *Report) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

// NumErrors returns the accumulated error count.
func (r *Report) NumErrors() int { return len(r.errors) }

// NumWarnings returns the accumulated warning count.
func (r *Report) NumWarnings() int { return len(r.warnings) }

// Warnings returns the accumulated warnings in record order.
func (r *Report) Warnings() []string { return r.warnings }

// Errors returns the accumulated errors in record order.
func (r *Report) Errors() []string { return r.errors }

// Checkpoint returns a fatal DATA_ERRORS error if any data errors have
// accumulated, and nil otherwise. The message names the error log so the
// user knows where the per-record detail went.
func (r *Report) Checkpoint() error {
	if len(r.errors) == 0 {
		return nil
	}
	return pederrors.New(pederrors.ErrCodeDataErrors,
		"%d data errors found. See file %q.", len(r.errors), r.ErrFile)
}

// WriteErrors writes the error log body.
func (r *Report) WriteErrors(w io.Writer) error {
	return writeLines(w, r.errors)
}

// WriteWarnings writes the warning log body.
func (r *Report) WriteWarnings(w io.Writer) error {
	return writeLines(w, r.warnings)
}

// WriteFiles writes the error and warning logs into dir, creating each file
// only when its channel is non-empty. Stale logs from earlier runs are
// removed so an empty channel leaves no file behind.
func (r *Report) WriteFiles(dir string) error {
	if err := writeChannel(dir, r.ErrFile, r.errors); err != nil {
		return err
	}
	return writeChannel(dir, r.WrnFile, r.warnings)
}

func writeChannel(dir, name string, lines []string) error {
	path := name
	if dir != "" {
		path = dir + string(os.PathSeparator) + name
	}
	if len(lines) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	var b strings.Builder
	if err := writeLines(&b, lines); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
