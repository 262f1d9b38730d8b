package tfln

import (
	"fmt"
	"math"

	"github.com/yyyoichi/lightrail/internal/material"
	"github.com/yyyoichi/lightrail/internal/waveguide"
)

const (
	ringWidth  = 1.2 // μm
	ringHeight = 0.6 // μm

	// tuningGap is the electrode gap assumed by TuningEfficiency regardless of CouplingGap.
	tuningGap = 5e-6 // m
)

// RingModulator is a TFLN microring driven by lumped electrodes.
type RingModulator struct {
	Radius      float64 // μm
	CouplingGap float64 // nm
	Cut         WaferCut
	Wavelength  float64 // nm

	wg      waveguide.TFLN
	pockels float64
}

// NewRingModulator builds a ring on a 1.2 x 0.6 μm ridge whose length is the circumference.
func NewRingModulator(radius, couplingGap float64, cut WaferCut, opts ...Option) (RingModulator, error) {
	c, err := newConfig(opts)
	if err != nil {
		return RingModulator{}, err
	}
	if err := positive("coupling gap", couplingGap); err != nil {
		return RingModulator{}, err
	}
	if err := positive("radius", radius); err != nil {
		return RingModulator{}, err
	}
	wg, err := waveguide.NewTFLN(ringWidth, ringHeight, 2*math.Pi*radius/1000, cut, c.wavelength)
	if err != nil {
		return RingModulator{}, fmt.Errorf("%w:%w", ErrInvalidParameter, err)
	}
	r, err := wg.Material().Pockels(cut)
	if err != nil {
		return RingModulator{}, fmt.Errorf("%w:%w", ErrInvalidParameter, err)
	}
	return RingModulator{
		Radius:      radius,
		CouplingGap: couplingGap,
		Cut:         cut,
		Wavelength:  c.wavelength,
		wg:          wg,
		pockels:     r,
	}, nil
}

func (r RingModulator) circumference() float64 {
	return 2 * math.Pi * r.Radius * 1e-6
}

// QualityFactor returns the loaded Q, half of the intrinsic Q set by round-trip loss.
func (r RingModulator) QualityFactor() float64 {
	n := r.wg.EffectiveIndex(material.TE)
	circ := r.circumference()
	roundTrip := r.wg.Material().Loss(material.TE) * (circ * 100) // dB
	alpha := roundTrip / (10 * math.Log10(math.E))
	q := (2 * math.Pi * n * circ) / (r.Wavelength * 1e-9 * alpha)
	return q / 2
}

// FreeSpectralRange in GHz.
func (r RingModulator) FreeSpectralRange() float64 {
	n := r.wg.EffectiveIndex(material.TE)
	return material.SpeedOfLight / (n * r.circumference()) / 1e9
}

// TuningEfficiency returns the resonance shift per volt in pm/V.
// The wavelength enters in nm and the gap is fixed at 5 μm.
func (r RingModulator) TuningEfficiency() float64 {
	n := r.wg.EffectiveIndex(material.TE)
	tuning := (r.Wavelength * n * n * n * r.pockels * 1e-12) / (2 * tuningGap)
	return tuning * 1e12
}

// ModulationDepth is the Lorentzian response to the resonance shift at voltage v.
func (r RingModulator) ModulationDepth(v float64) float64 {
	// both in pm
	shift := r.TuningEfficiency() * v
	linewidth := r.FreeSpectralRange() * 1e3 / r.QualityFactor()
	d := shift / linewidth
	return 1 / (1 + d*d)
}
