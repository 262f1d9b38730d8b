package optical

import (
	"fmt"
	"math"
	"math/bits"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// base delay line of the first stage, doubled at every stage
const baseDelay = 1000.0 // μm

// FFT is a photonic Fourier transform built from log2(size) delay-line stages.
type FFT struct {
	size   int
	delays []Waveguide
}

// NewFFT builds floor(log2(size)) stages. Size is normally a power of two.
func NewFFT(size int) (FFT, error) {
	if size < 1 {
		return FFT{}, fmt.Errorf("%w: fft size must be positive, got %d", ErrInvalidParameter, size)
	}
	stages := bits.Len(uint(size)) - 1
	f := FFT{size: size, delays: make([]Waveguide, stages)}
	for i := range f.delays {
		f.delays[i] = NewWaveguide(baseDelay * float64(int(1)<<i))
	}
	return f, nil
}

func (f FFT) Size() int {
	return f.size
}

func (f FFT) Stages() int {
	return len(f.delays)
}

// Compute returns the unitary DFT of x, Σ x[j]·e^{-2πi·jk/N} / √N.
func (f FFT) Compute(x []complex128) ([]complex128, error) {
	if len(x) != f.size {
		return nil, fmt.Errorf("%w: want %d samples, got %d", ErrInvalidParameter, f.size, len(x))
	}
	out := fourier.NewCmplxFFT(f.size).Coefficients(nil, x)
	cmplxs.ScaleReal(1/math.Sqrt(float64(f.size)), out)
	return out, nil
}

// LatencyNs is the time of flight through every delay line in silicon.
func (f FFT) LatencyNs() float64 {
	t := make([]float64, len(f.delays))
	for i, d := range f.delays {
		t[i] = d.TransitTime()
	}
	return floats.Sum(t)
}
