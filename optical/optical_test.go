package optical

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func assertComplexInDelta(t *testing.T, exp, got []complex128, delta float64) {
	t.Helper()
	require.Len(t, got, len(exp))
	for i := range exp {
		assert.InDelta(t, real(exp[i]), real(got[i]), delta, "real[%d]", i)
		assert.InDelta(t, imag(exp[i]), imag(got[i]), delta, "imag[%d]", i)
	}
}

func TestMatrixMultiply(t *testing.T) {
	test := []struct {
		name       string
		theta, phi []float64
		in, exp    []complex128
	}{
		{
			name:  "identity rotation",
			theta: []float64{0}, phi: []float64{0},
			in:  []complex128{1 + 1i, 2},
			exp: []complex128{1 + 1i, 2},
		},
		{
			name:  "swap with sign",
			theta: []float64{math.Pi / 2}, phi: []float64{0},
			in:  []complex128{1, 2},
			exp: []complex128{-2, 1},
		},
		{
			name:  "phase on the coupled arm",
			theta: []float64{math.Pi / 2}, phi: []float64{math.Pi / 2},
			in:  []complex128{1, 2},
			exp: []complex128{-2i, -1i},
		},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatrixMultiplier(2, WithPhases(tt.theta, tt.phi))
			require.NoError(t, err)
			out, err := m.Multiply(tt.in)
			require.NoError(t, err)
			assertComplexInDelta(t, tt.exp, out, 1e-12)
			// input is left untouched
			assert.Equal(t, tt.in[1], complex128(2))
		})
	}
}

func TestMatrixMultiplierMesh(t *testing.T) {
	m, err := NewMatrixMultiplier(8, WithSeed(3))
	require.NoError(t, err)
	assert.Equal(t, 28, m.NumMZI())
	theta, phi := m.Phases()
	for i := range theta {
		assert.True(t, theta[i] >= 0 && theta[i] < 2*math.Pi)
		assert.True(t, phi[i] >= 0 && phi[i] < 2*math.Pi)
	}

	again, err := NewMatrixMultiplier(8, WithSeed(3))
	require.NoError(t, err)
	theta2, _ := again.Phases()
	assert.Equal(t, theta, theta2)

	// every stage is a 2x2 rotation, so the vector norm survives the cascade
	in := []complex128{1, 1i, -2, 0.5, 3 - 1i, 0, 1, 2i}
	out, err := m.Multiply(in)
	require.NoError(t, err)
	norm := func(v []complex128) float64 {
		var s float64
		for _, x := range v {
			s += real(x)*real(x) + imag(x)*imag(x)
		}
		return s
	}
	assert.InDelta(t, norm(in), norm(out), 1e-9)

	_, err = m.Multiply(in[:3])
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewMatrixMultiplier(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewMatrixMultiplier(3, WithPhases([]float64{0}, []float64{0}))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestEncodeMatrix(t *testing.T) {
	m, err := NewMatrixMultiplier(3, WithSeed(1))
	require.NoError(t, err)
	u := mat.NewCDense(3, 3, []complex128{
		1, 2i, -1,
		0, 1, 1 + 1i,
		0, 0, 1,
	})
	require.NoError(t, m.EncodeMatrix(u))
	theta, phi := m.Phases()
	assert.InDeltaSlice(t, []float64{math.Pi / 2, math.Pi, math.Pi / 4}, theta, 1e-12)
	assert.InDeltaSlice(t, []float64{2, 1, math.Sqrt2}, phi, 1e-12)

	err = m.EncodeMatrix(mat.NewCDense(2, 3, nil))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestThroughput(t *testing.T) {
	m, err := NewMatrixMultiplier(2)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, m.Throughput(), 1e-12)
	assert.InDelta(t, 104857.6, matrixThroughput(1024), 1e-6)
}

func TestWDM(t *testing.T) {
	w, err := NewWDM(64)
	require.NoError(t, err)
	l := w.Wavelengths()
	assert.Equal(t, 1530.0, l[0])
	assert.InDelta(t, 1565.0, l[63], 1e-9)
	assert.InDelta(t, 35.0/63, w.ChannelSpacing(), 1e-12)
	assert.InDelta(t, 6.4, w.AggregateBandwidth(), 1e-12)

	single, err := NewWDM(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1530}, single.Wavelengths())
	assert.Equal(t, 0.0, single.ChannelSpacing())

	_, err = NewWDM(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = w.Filter(64)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestWDMRoundTrip(t *testing.T) {
	w, err := NewWDM(4)
	require.NoError(t, err)

	// a lone channel comes back as its own magnitude on its own carrier
	data := [][]float64{{1, 0.5, 2, 0}}
	sig, err := w.Multiplex(data)
	require.NoError(t, err)
	got := w.Demultiplex(sig)
	require.Len(t, got, 4)
	assert.InDeltaSlice(t, data[0], got[0], 1e-9)

	_, err = w.Multiplex([][]float64{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = w.Multiplex(make([][]float64, 5))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestFFT(t *testing.T) {
	f, err := NewFFT(4)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Stages())

	out, err := f.Compute([]complex128{1, 2, 3, 4})
	require.NoError(t, err)
	assertComplexInDelta(t, []complex128{5, -1 + 1i, -1, -1 - 1i}, out, 1e-12)

	_, err = f.Compute([]complex128{1})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	// Parseval holds for the unitary scaling
	big, err := NewFFT(1024)
	require.NoError(t, err)
	x := make([]complex128, 1024)
	for i := range x {
		x[i] = cmplx.Rect(1, float64(i)*0.1)
	}
	y, err := big.Compute(x)
	require.NoError(t, err)
	ex, ey := make([]float64, len(x)), make([]float64, len(y))
	for i := range x {
		ex[i] = cmplx.Abs(x[i]) * cmplx.Abs(x[i])
		ey[i] = cmplx.Abs(y[i]) * cmplx.Abs(y[i])
	}
	assert.InDelta(t, floats.Sum(ex), floats.Sum(ey), 1e-6)

	assert.Equal(t, 10, big.Stages())
	assert.InDelta(t, 11.8668, big.LatencyNs(), 1e-9)
}

func TestSiliconComponents(t *testing.T) {
	wg := NewWaveguide(1000)
	assert.InDelta(t, 0.2, wg.PropagationLoss(), 1e-12)
	assert.InDelta(t, 3.43, wg.EffectiveIndex(), 1e-12)

	mzi := NewMZI()
	assert.InDelta(t, 1.0, mzi.ModulationDepth(0, DefaultVPi), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 1}, mzi.EncodeData([]bool{true, false}, DefaultVPi), 1e-12)

	ring := NewRingResonator()
	assert.Equal(t, []float64{1470, 1490, 1510, 1530, 1550, 1570, 1590, 1610}, ring.ResonanceWavelengths(1550, 8))
	assert.Equal(t, []float64{1490, 1510, 1530, 1550, 1570}, ring.ResonanceWavelengths(1550, 5))
	assert.Empty(t, ring.ResonanceWavelengths(1550, 0))

	tr := ring.TransmissionSpectrum([]float64{1550, 1560}, 1550)
	// on resonance: 1 - κ²/γ² with γ = 1/(2Q)
	assert.InDelta(t, 1-0.01/(0.5e-4*0.5e-4), tr[0], 1e-3)
	assert.Less(t, tr[0], tr[1])
}

func TestCalculatePerformance(t *testing.T) {
	p, err := CalculatePerformance(1024, 64)
	require.NoError(t, err)
	assert.InDelta(t, 104857.6, p.MatrixMultiplyTOPS, 1e-6)
	assert.InDelta(t, 6710886.4, p.TotalThroughputTOPS, 1e-4)
	assert.InDelta(t, 6.4, p.AggregateBandwidthTbps, 1e-12)
	assert.InDelta(t, 11.8668, p.FFTLatencyNs, 1e-9)
	assert.InDelta(t, 671088.64, p.EnergyEfficiency, 1e-5)
	assert.Equal(t, 1000.0, p.SpeedupVsElectronic)

	_, err = CalculatePerformance(0, 64)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = CalculatePerformance(1024, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
