package material

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownCut          = errors.New("unknown wafer cut")
	ErrUnknownPolarization = errors.New("unknown polarization")
)

const (
	// SpeedOfLight is the vacuum speed of light used throughout the models (m/s).
	SpeedOfLight = 3e8
	// VacuumPermittivity in F/m.
	VacuumPermittivity = 8.854e-12
	// CladdingIndex is the SiO2 cladding index at 1550 nm.
	CladdingIndex = 1.45
	// SiliconIndex is the silicon core index at 1550 nm.
	SiliconIndex = 3.48
)

// WaferCut is the crystal orientation of a lithium niobate film.
// The zero value is XCut.
type WaferCut int

const (
	XCut WaferCut = iota
	YCut
	ZCut
)

func (c WaferCut) Valid() bool {
	return c >= XCut && c <= ZCut
}

func (c WaferCut) String() string {
	switch c {
	case XCut:
		return "X-cut"
	case YCut:
		return "Y-cut"
	case ZCut:
		return "Z-cut"
	}
	return fmt.Sprintf("WaferCut(%d)", int(c))
}

// ParseWaferCut accepts "x", "x-cut", "x_cut" and the Y/Z forms, case-insensitively.
func ParseWaferCut(s string) (WaferCut, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(strings.TrimSuffix(v, "-cut"), "_cut")
	switch v {
	case "x":
		return XCut, nil
	case "y":
		return YCut, nil
	case "z":
		return ZCut, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCut, s)
}

// Polarization selects the guided mode. The zero value is TE.
type Polarization int

const (
	TE Polarization = iota
	TM
)

func (p Polarization) Valid() bool {
	return p == TE || p == TM
}

func (p Polarization) String() string {
	switch p {
	case TE:
		return "TE"
	case TM:
		return "TM"
	}
	return fmt.Sprintf("Polarization(%d)", int(p))
}

// Properties holds the bulk optical constants of a lithium niobate film at 1550 nm.
type Properties struct {
	OrdinaryIndex      float64 // n_o
	ExtraordinaryIndex float64 // n_e

	// Electro-optic tensor elements in pm/V.
	R33, R13, R22 float64

	ThermoOptic float64 // dn/dT in 1/K

	// Propagation loss in dB/cm.
	LossTE, LossTM float64

	Chi2 float64 // pm/V
	Chi3 float64 // m^2/V^2
}

// LithiumNiobate returns the thin-film lithium niobate constants.
func LithiumNiobate() Properties {
	return Properties{
		OrdinaryIndex:      2.211,
		ExtraordinaryIndex: 2.138,
		R33:                30.8,
		R13:                8.6,
		R22:                3.4,
		ThermoOptic:        3.0e-5,
		LossTE:             0.27,
		LossTM:             0.30,
		Chi2:               27.0,
		Chi3:               2.5e-22,
	}
}

// Pockels returns the effective electro-optic coefficient (pm/V) addressed by
// a field applied across the given cut.
func (p Properties) Pockels(cut WaferCut) (float64, error) {
	switch cut {
	case XCut:
		return p.R33, nil
	case YCut:
		return p.R22, nil
	case ZCut:
		return p.R13, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownCut, int(cut))
}

// CoreIndex is n_e for TE and n_o for TM.
func (p Properties) CoreIndex(pol Polarization) float64 {
	if pol == TM {
		return p.OrdinaryIndex
	}
	return p.ExtraordinaryIndex
}

// Loss returns the propagation loss in dB/cm for the polarization.
func (p Properties) Loss(pol Polarization) float64 {
	if pol == TM {
		return p.LossTM
	}
	return p.LossTE
}
