// Package parse ingests raw pedigree records into a [ped.Cohort].
//
// Two input modes are supported: fixed-width records described by a
// [Layout] (the common case), and pre-indexed records whose identifiers are
// already sequential integers (see [Indexed]).
package parse

import (
	"os"

	"github.com/BurntSushi/toml"

	pederrors "github.com/pedkit/pedkit/pkg/errors"
)

// Layout describes the fixed-width record format: the width of each field in
// bytes. Fields appear in a fixed order: family id (optional), individual id,
// father id, mother id, sex, twin id (optional), household id (optional).
// The individual, father, and mother fields share one width.
type Layout struct {
	FamID  int `toml:"famid"` // 0 disables family-id prefixing
	ID     int `toml:"id"`
	Sex    int `toml:"sex"`
	TwinID int `toml:"twinid"` // 0 when the data set records no twins
	HHID   int `toml:"hhid"`   // 0 when the data set records no households

	// Numeric selects numeric identifier ordering: leading digit runs
	// compare by value before the byte-wise tie break.
	Numeric bool `toml:"numeric"`
}

// DefaultLayout matches the historical 5/5/5/1 column convention.
var DefaultLayout = Layout{ID: 5, Sex: 1}

// RecordLen returns the exact line length the layout describes.
func (l Layout) RecordLen() int {
	return l.FamID + 3*l.ID + l.Sex + l.TwinID + l.HHID
}

// Validate checks that the layout is usable.
func (l Layout) Validate() error {
	if l.ID <= 0 {
		return pederrors.New(pederrors.ErrCodeInvalidLayout, "id field width must be positive, got %d", l.ID)
	}
	if l.Sex <= 0 {
		return pederrors.New(pederrors.ErrCodeInvalidLayout, "sex field width must be positive, got %d", l.Sex)
	}
	if l.FamID < 0 || l.TwinID < 0 || l.HHID < 0 {
		return pederrors.New(pederrors.ErrCodeInvalidLayout, "field widths must not be negative")
	}
	if l.FamID+l.ID > pederrors.MaxIDLen {
		return pederrors.New(pederrors.ErrCodeInvalidLayout,
			"famid plus id width exceeds %d characters", pederrors.MaxIDLen)
	}
	return nil
}

// LoadLayout reads a TOML layout file.
func LoadLayout(path string) (Layout, error) {
	if err := pederrors.ValidateLayoutPath(path); err != nil {
		return Layout{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, pederrors.Wrap(pederrors.ErrCodeFileNotFound, err, "layout file %s not found", path)
		}
		return Layout{}, pederrors.Wrap(pederrors.ErrCodeInvalidLayout, err, "failed to read layout file %s", path)
	}
	var l Layout
	if err := toml.Unmarshal(data, &l); err != nil {
		return Layout{}, pederrors.Wrap(pederrors.ErrCodeInvalidLayout, err, "failed to parse layout file %s", path)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}
