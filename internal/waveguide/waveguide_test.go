package waveguide

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/lightrail/internal/material"
)

func TestTFLN(t *testing.T) {
	w, err := NewTFLN(1.5, 0.6, 15, material.XCut, 1550)
	require.NoError(t, err)

	test := []struct {
		pol   material.Polarization
		index float64
		loss  float64
	}{
		{material.TE, 2.09439875719161, 0.405},
		{material.TM, 2.1682681619239266, 0.45},
	}
	for _, tt := range test {
		t.Run(tt.pol.String(), func(t *testing.T) {
			assert.InDelta(t, tt.index, w.EffectiveIndex(tt.pol), 1e-12)
			assert.InDelta(t, tt.loss, w.PropagationLoss(tt.pol), 1e-12)
			// guided: between cladding and core
			assert.Greater(t, w.EffectiveIndex(tt.pol), material.CladdingIndex)
			assert.Less(t, w.EffectiveIndex(tt.pol), w.Material().CoreIndex(tt.pol))
		})
	}
	assert.InEpsilon(t, 136418284.5951463, w.GroupVelocity(material.TE), 1e-12)
	assert.Equal(t, -2.5, w.Dispersion())

	// below the single mode cutoff
	narrow, err := NewTFLN(0.2, 0.6, 15, material.XCut, 1550)
	require.NoError(t, err)
	assert.InDelta(t, 1.6429991876934558, narrow.EffectiveIndex(material.TE), 1e-12)
}

func TestNewTFLNInvalid(t *testing.T) {
	test := []struct {
		name                      string
		width, height, length, wl float64
		cut                       material.WaferCut
		err                       error
	}{
		{"zero width", 0, 0.6, 15, 1550, material.XCut, ErrInvalidGeometry},
		{"negative height", 1.5, -1, 15, 1550, material.XCut, ErrInvalidGeometry},
		{"infinite length", 1.5, 0.6, math.Inf(1), 1550, material.XCut, ErrInvalidGeometry},
		{"nan wavelength", 1.5, 0.6, 15, math.NaN(), material.XCut, ErrInvalidGeometry},
		{"unknown cut", 1.5, 0.6, 15, 1550, material.WaferCut(7), material.ErrUnknownCut},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTFLN(tt.width, tt.height, tt.length, tt.cut, tt.wl)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSilicon(t *testing.T) {
	s := NewSilicon(1000)
	assert.InDelta(t, 0.2, s.PropagationLoss(), 1e-12)
	assert.InDelta(t, 3.43, s.EffectiveIndex(), 1e-12)
	assert.InDelta(t, 0.0116, s.TransitTime(), 1e-12)
}
