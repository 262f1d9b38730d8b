package tfln

import (
	"math"

	"github.com/yyyoichi/lightrail/internal/material"
)

const (
	shgIndex      = 2.25  // n at the 775 nm harmonic
	shgModeArea   = 2e-12 // m^2
	maxConversion = 0.95
)

// FrequencyDoubler is a periodically poled TFLN second-harmonic generator.
type FrequencyDoubler struct {
	Length         float64 // mm
	PolingPeriod   float64 // μm
	PumpWavelength float64 // nm

	mat material.Properties
}

// NewFrequencyDoubler builds a doubler. WithWavelength sets the pump wavelength.
func NewFrequencyDoubler(length, polingPeriod float64, opts ...Option) (FrequencyDoubler, error) {
	c, err := newConfig(opts)
	if err != nil {
		return FrequencyDoubler{}, err
	}
	if err := positive("length", length); err != nil {
		return FrequencyDoubler{}, err
	}
	if err := positive("poling period", polingPeriod); err != nil {
		return FrequencyDoubler{}, err
	}
	return FrequencyDoubler{
		Length:         length,
		PolingPeriod:   polingPeriod,
		PumpWavelength: c.wavelength,
		mat:            material.LithiumNiobate(),
	}, nil
}

// HarmonicWavelength in nm.
func (d FrequencyDoubler) HarmonicWavelength() float64 {
	return d.PumpWavelength / 2
}

// PhaseMatchingPeriod returns the quasi-phase-matching poling period in μm.
func (d FrequencyDoubler) PhaseMatchingPeriod() float64 {
	dn := shgIndex - d.mat.ExtraordinaryIndex
	return d.PumpWavelength * 1e-3 / (2 * dn)
}

// ConversionEfficiency returns the undepleted-pump efficiency for pumpPower W, capped at 0.95.
func (d FrequencyDoubler) ConversionEfficiency(pumpPower float64) float64 {
	deff := d.mat.Chi2 * 1e-12
	length := d.Length * 1e-3
	c := material.SpeedOfLight
	omega := 2 * math.Pi * c / (d.PumpWavelength * 1e-9)
	np := d.mat.ExtraordinaryIndex

	eta := (2 * omega * omega * deff * deff * length * length * pumpPower) /
		(material.VacuumPermittivity * c * c * c * np * np * shgIndex * shgModeArea)
	return math.Min(eta, maxConversion)
}
