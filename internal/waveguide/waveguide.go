package waveguide

import (
	"errors"
	"fmt"
	"math"

	"github.com/yyyoichi/lightrail/internal/material"
)

var (
	ErrInvalidGeometry = errors.New("invalid waveguide geometry")
)

const (
	// cutoff of the fundamental mode in the normalized-frequency approximation.
	singleModeCutoff = 2.405
	// group index is approximated as n_eff scaled by this factor.
	groupIndexFactor = 1.05
	// chromatic dispersion of a TFLN ridge in the C-band (ps/nm/km).
	tflnDispersion = -2.5
)

// TFLN is a thin-film lithium niobate ridge waveguide.
type TFLN struct {
	Width      float64 // μm
	Height     float64 // μm, film thickness
	Length     float64 // mm
	Cut        material.WaferCut
	Wavelength float64 // nm

	mat material.Properties
}

// NewTFLN validates the geometry and returns the waveguide.
// All dimensions and the wavelength must be positive and finite.
func NewTFLN(width, height, length float64, cut material.WaferCut, wavelength float64) (TFLN, error) {
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"width", width},
		{"height", height},
		{"length", length},
		{"wavelength", wavelength},
	} {
		if !(v.val > 0) || math.IsInf(v.val, 0) {
			return TFLN{}, fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidGeometry, v.name, v.val)
		}
	}
	if !cut.Valid() {
		return TFLN{}, fmt.Errorf("%w: %d", material.ErrUnknownCut, int(cut))
	}
	return TFLN{
		Width:      width,
		Height:     height,
		Length:     length,
		Cut:        cut,
		Wavelength: wavelength,
		mat:        material.LithiumNiobate(),
	}, nil
}

// EffectiveIndex estimates n_eff with a normalized-frequency (Marcatili style)
// approximation against a SiO2 cladding.
func (w TFLN) EffectiveIndex(pol material.Polarization) float64 {
	nCore := w.mat.CoreIndex(pol)
	nClad := material.CladdingIndex

	v := (2 * math.Pi / (w.Wavelength * 1e-3)) * w.Width * math.Sqrt(nCore*nCore-nClad*nClad)
	var b float64
	if v < singleModeCutoff {
		b = (v / singleModeCutoff) * (v / singleModeCutoff)
	} else {
		b = 1 - (singleModeCutoff/v)*(singleModeCutoff/v)
	}
	return nClad + (nCore-nClad)*b
}

// PropagationLoss returns the total loss over Length in dB.
func (w TFLN) PropagationLoss(pol material.Polarization) float64 {
	return w.mat.Loss(pol) * (w.Length / 10)
}

// GroupVelocity in m/s.
func (w TFLN) GroupVelocity(pol material.Polarization) float64 {
	return material.SpeedOfLight / (w.EffectiveIndex(pol) * groupIndexFactor)
}

// Dispersion in ps/nm/km.
func (w TFLN) Dispersion() float64 {
	return tflnDispersion
}

// Material returns the constants the waveguide was built with.
func (w TFLN) Material() material.Properties {
	return w.mat
}

// Silicon is a silicon-on-insulator strip waveguide.
type Silicon struct {
	Length float64 // μm
	Width  float64 // nm
	Height float64 // nm
	Index  float64
	LossDB float64 // dB/cm
}

// NewSilicon returns the 500x220 nm strip with the given length in μm.
func NewSilicon(length float64) Silicon {
	return Silicon{
		Length: length,
		Width:  500,
		Height: 220,
		Index:  material.SiliconIndex,
		LossDB: 2.0,
	}
}

// PropagationLoss returns the total loss over Length in dB.
func (s Silicon) PropagationLoss() float64 {
	return s.LossDB * (s.Length / 10000)
}

// EffectiveIndex is a width-corrected core index.
func (s Silicon) EffectiveIndex() float64 {
	return s.Index - 0.1*(s.Width/1000)
}

// TransitTime returns the time of flight through the strip in ns,
// taking the bulk silicon index as the group index.
func (s Silicon) TransitTime() float64 {
	return (s.Length * 1e-6) / (material.SpeedOfLight / s.Index) * 1e9
}
