package tfln

import (
	"fmt"
	"strings"
)

// ModulationFormat is the line coding of a modulator.
type ModulationFormat int

const (
	OOK ModulationFormat = iota
	PAM4
	PAM8
	QAM16
	QAM64
)

var formatNames = [...]string{"OOK", "PAM4", "PAM8", "QAM16", "QAM64"}

var formatLabels = [...]string{"On-Off Keying", "4-level PAM", "8-level PAM", "16-QAM", "64-QAM"}

func (f ModulationFormat) Valid() bool {
	return f >= OOK && f <= QAM64
}

func (f ModulationFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("ModulationFormat(%d)", int(f))
	}
	return formatNames[f]
}

// Label is the human readable name, e.g. "4-level PAM".
func (f ModulationFormat) Label() string {
	if !f.Valid() {
		return f.String()
	}
	return formatLabels[f]
}

// BitsPerSymbol is log2 of the alphabet size.
func (f ModulationFormat) BitsPerSymbol() int {
	switch f {
	case OOK:
		return 1
	case PAM4:
		return 2
	case PAM8:
		return 3
	case QAM16:
		return 4
	case QAM64:
		return 6
	}
	return 0
}

// intensity reports whether the format maps onto a single drive voltage per symbol.
func (f ModulationFormat) intensity() bool {
	return f == OOK || f == PAM4 || f == PAM8
}

func (f ModulationFormat) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: modulation format %d", ErrInvalidParameter, int(f))
	}
	return []byte(f.String()), nil
}

func (f *ModulationFormat) UnmarshalText(b []byte) error {
	v, err := ParseModulationFormat(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseModulationFormat accepts the short names ("pam4") and the labels ("4-level PAM").
func ParseModulationFormat(s string) (ModulationFormat, error) {
	v := strings.TrimSpace(s)
	for i := range formatNames {
		if strings.EqualFold(v, formatNames[i]) || strings.EqualFold(v, formatLabels[i]) {
			return ModulationFormat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown modulation format %q", ErrInvalidParameter, s)
}
