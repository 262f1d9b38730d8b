package tfln

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReferenceMZM(t *testing.T) MachZehnder {
	t.Helper()
	m, err := NewMachZehnder(15, 6, XCut)
	require.NoError(t, err)
	return m
}

func TestNewMachZehnder(t *testing.T) {
	test := []struct {
		name   string
		length float64
		gap    float64
		cut    WaferCut
		opts   []Option
		err    error
	}{
		{name: "reference", length: 15, gap: 6, cut: XCut},
		{name: "z-cut", length: 15, gap: 6, cut: ZCut},
		{name: "zero length", length: 0, gap: 6, cut: XCut, err: ErrInvalidParameter},
		{name: "negative gap", length: 15, gap: -1, cut: XCut, err: ErrInvalidParameter},
		{name: "unknown cut", length: 15, gap: 6, cut: WaferCut(9), err: ErrInvalidParameter},
		{name: "bad wavelength", length: 15, gap: 6, cut: XCut, opts: []Option{WithWavelength(0)}, err: ErrInvalidParameter},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMachZehnder(tt.length, tt.gap, tt.cut, tt.opts...)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultWavelength, m.Wavelength)
		})
	}
}

func TestHalfWaveVoltage(t *testing.T) {
	m := newReferenceMZM(t)
	assert.InDelta(t, 2.7388791600690805, m.HalfWaveVoltage(), 1e-9)

	short, err := NewMachZehnder(10, 6, XCut)
	require.NoError(t, err)
	assert.InDelta(t, 4.108318740103621, short.HalfWaveVoltage(), 1e-9)

	// the weaker coefficients of Y and Z cuts raise Vπ
	y, err := NewMachZehnder(15, 6, YCut)
	require.NoError(t, err)
	assert.InDelta(t, 24.811022979449316, y.HalfWaveVoltage(), 1e-8)
	z, err := NewMachZehnder(15, 6, ZCut)
	require.NoError(t, err)
	assert.InDelta(t, 9.809009084898568, z.HalfWaveVoltage(), 1e-8)

	t.Run("monotone in length", func(t *testing.T) {
		prev := math.Inf(1)
		for l := 5.0; l <= 25; l += 2.5 {
			m, err := NewMachZehnder(l, 6, XCut)
			require.NoError(t, err)
			v := m.HalfWaveVoltage()
			assert.Less(t, v, prev)
			prev = v
		}
	})
}

func TestBandwidthAndExtinction(t *testing.T) {
	for _, l := range []float64{0.01, 0.1, 1, 5, 15, 25} {
		m, err := NewMachZehnder(l, 6, XCut)
		require.NoError(t, err)
		assert.LessOrEqual(t, m.ModulationBandwidth(), 120.0)
		assert.Greater(t, m.ModulationBandwidth(), 0.0)
	}
	m := newReferenceMZM(t)
	assert.InDelta(t, 2.4372844748798807e-07, m.ModulationBandwidth(), 1e-15)

	assert.InDelta(t, 30.05700254611732, m.ExtinctionRatio(), 1e-9)
	for _, imb := range []float64{0, 1e-6, 1e-3, 0.01, 0.5} {
		assert.LessOrEqual(t, m.ExtinctionRatioAt(imb), 45.0)
	}
	assert.Equal(t, 45.0, m.ExtinctionRatioAt(0))

	assert.InDelta(t, 1.005, m.InsertionLoss(), 1e-12)
}

func TestPowerConsumption(t *testing.T) {
	m := newReferenceMZM(t)
	test := []struct {
		format ModulationFormat
		exp    float64
	}{
		{format: OOK, exp: 0.40675131314811463},
		{format: PAM4, exp: 0.40337565657405733},
		{format: PAM8, exp: 0.4097218909332851},
		{format: QAM16, exp: 0.415190454583258},
		{format: QAM64, exp: 0.415190454583258},
	}
	for _, tt := range test {
		t.Run(tt.format.String(), func(t *testing.T) {
			p, err := m.PowerConsumption(400, tt.format)
			require.NoError(t, err)
			assert.InDelta(t, tt.exp, p, 1e-12)
		})
	}

	_, err := m.PowerConsumption(400, ModulationFormat(42))
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = m.PowerConsumption(-1, PAM4)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestTransferFunction(t *testing.T) {
	m := newReferenceMZM(t)
	vpi := m.HalfWaveVoltage()
	out := m.TransferFunction([]float64{0, vpi / 2, vpi, 2 * vpi})
	assert.InDelta(t, 1.0, out[0], 1e-12)
	assert.InDelta(t, 0.5, out[1], 1e-12)
	assert.InDelta(t, 0.0, out[2], 1e-12)
	assert.InDelta(t, 1.0, out[3], 1e-12)
	assert.InDelta(t, 0.0, m.Transmission(vpi), 1e-12)
}

func TestEncodePAM(t *testing.T) {
	m := newReferenceMZM(t)
	vpi := m.HalfWaveVoltage()

	t.Run("pam4", func(t *testing.T) {
		out := m.EncodePAM4([]bool{false, true, true, false})
		require.Len(t, out, 2)
		assert.InDelta(t, vpi/3, out[0], 1e-12)
		assert.InDelta(t, 2*vpi/3, out[1], 1e-12)

		out = m.EncodePAM4([]bool{false, false, true, true, true})
		require.Len(t, out, 2)
		assert.Equal(t, 0.0, out[0])
		assert.InDelta(t, vpi, out[1], 1e-12)

		assert.Empty(t, m.EncodePAM4(nil))
	})
	t.Run("pam8", func(t *testing.T) {
		out := m.EncodePAM8([]bool{true, true, true, false, false, true, true})
		require.Len(t, out, 2)
		assert.InDelta(t, vpi, out[0], 1e-12)
		assert.InDelta(t, vpi/7, out[1], 1e-12)
	})
	t.Run("qam", func(t *testing.T) {
		_, err := m.Encode([]bool{true}, QAM16)
		assert.ErrorIs(t, err, ErrUnsupported)
		_, err = m.Decide([]float64{0}, QAM64)
		assert.ErrorIs(t, err, ErrUnsupported)
	})
	t.Run("decide", func(t *testing.T) {
		bits := []bool{true, false, false, true, true, true}
		for _, f := range []ModulationFormat{OOK, PAM4, PAM8} {
			levels, err := m.Encode(bits, f)
			require.NoError(t, err)
			got, err := m.Decide(levels, f)
			require.NoError(t, err)
			assert.Equal(t, bits, got, f.String())
		}
	})
}
