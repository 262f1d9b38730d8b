package optical

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"
)

const (
	// C-band edges in nm.
	cBandLow  = 1530.0
	cBandHigh = 1565.0

	channelRate = 100.0 // Gbps
)

// WDM multiplexes data channels onto a uniform C-band wavelength grid,
// one ring filter per channel.
type WDM struct {
	wavelengths []float64
	filters     []RingResonator
}

func NewWDM(channels int) (*WDM, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: channel count must be positive, got %d", ErrInvalidParameter, channels)
	}
	w := &WDM{
		wavelengths: make([]float64, channels),
		filters:     make([]RingResonator, channels),
	}
	if channels == 1 {
		w.wavelengths[0] = cBandLow
	} else {
		floats.Span(w.wavelengths, cBandLow, cBandHigh)
	}
	for i := range w.filters {
		w.filters[i] = NewRingResonator()
	}
	return w, nil
}

func (w *WDM) Channels() int {
	return len(w.wavelengths)
}

// Wavelengths returns a copy of the grid in nm.
func (w *WDM) Wavelengths() []float64 {
	return append([]float64(nil), w.wavelengths...)
}

// ChannelSpacing in nm. A single channel has no spacing.
func (w *WDM) ChannelSpacing() float64 {
	n := len(w.wavelengths)
	if n < 2 {
		return 0
	}
	return (w.wavelengths[n-1] - w.wavelengths[0]) / float64(n-1)
}

// AggregateBandwidth in Tbps at 100 Gbps per channel.
func (w *WDM) AggregateBandwidth() float64 {
	return float64(len(w.wavelengths)) * channelRate / 1000
}

// Multiplex sums data[i] modulated on the carrier of channel i.
// All channels must have the same length and there may not be more of them than wavelengths.
func (w *WDM) Multiplex(data [][]float64) ([]complex128, error) {
	if len(data) == 0 || len(data) > len(w.wavelengths) {
		return nil, fmt.Errorf("%w: want 1..%d channels, got %d", ErrInvalidParameter, len(w.wavelengths), len(data))
	}
	n := len(data[0])
	out := make([]complex128, n)
	for i, ch := range data {
		if len(ch) != n {
			return nil, fmt.Errorf("%w: channel %d has %d samples, want %d", ErrInvalidParameter, i, len(ch), n)
		}
		for k, v := range ch {
			out[k] += complex(v, 0) * carrier(w.wavelengths[i], k, 1)
		}
	}
	return out, nil
}

// Demultiplex mixes signal down with every channel carrier and returns the magnitudes.
func (w *WDM) Demultiplex(signal []complex128) [][]float64 {
	out := make([][]float64, len(w.wavelengths))
	mixed := make([]complex128, len(signal))
	for i, l := range w.wavelengths {
		for k, v := range signal {
			mixed[k] = v * carrier(l, k, -1)
		}
		out[i] = make([]float64, len(signal))
		cmplxs.Abs(out[i], mixed)
	}
	return out
}

// Filter returns the ring filter of channel i.
func (w *WDM) Filter(i int) (RingResonator, error) {
	if i < 0 || i >= len(w.filters) {
		return RingResonator{}, fmt.Errorf("%w: channel %d out of range", ErrInvalidParameter, i)
	}
	return w.filters[i], nil
}

func carrier(wavelength float64, k int, sign float64) complex128 {
	return cmplx.Exp(complex(0, sign*2*math.Pi*wavelength*float64(k)))
}
