// Package optical models silicon-photonic compute primitives: an MZI mesh
// matrix multiplier, a WDM multiplexer and a delay-line FFT, together with
// the aggregate throughput figures derived from them.
package optical

import (
	"errors"
	"fmt"
	"math"

	"github.com/yyyoichi/lightrail/internal/waveguide"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Waveguide is a silicon strip waveguide; lengths are in μm.
type Waveguide = waveguide.Silicon

// NewWaveguide returns a 500x220 nm strip of the given length in μm.
func NewWaveguide(length float64) Waveguide {
	return waveguide.NewSilicon(length)
}

const (
	// DefaultVPi is the silicon MZI half-wave voltage.
	DefaultVPi = 3.0
	// ElectronicSpeedup is the assumed advantage over an electronic implementation.
	ElectronicSpeedup = 1000.0
	// wall-plug power assumed for the efficiency estimate
	systemPower = 10.0 // W
)

// MZI is a silicon Mach-Zehnder interferometer used as a data modulator.
type MZI struct {
	ArmLength          float64 // μm
	PhaseShifterLength float64 // μm
	ExtinctionRatio    float64 // dB
	Bandwidth          float64 // GHz
	InsertionLoss      float64 // dB
}

func NewMZI() MZI {
	return MZI{
		ArmLength:          1000,
		PhaseShifterLength: 500,
		ExtinctionRatio:    30,
		Bandwidth:          100,
		InsertionLoss:      3,
	}
}

// ModulationDepth returns the normalized output at voltage v.
func (MZI) ModulationDepth(v, vpi float64) float64 {
	return 0.5 * (1 + math.Cos(math.Pi*v/vpi))
}

// EncodeData drives a set bit at vpi and a clear bit at zero.
func (m MZI) EncodeData(data []bool, vpi float64) []float64 {
	out := make([]float64, len(data))
	for i, b := range data {
		var v float64
		if b {
			v = vpi
		}
		out[i] = m.ModulationDepth(v, vpi)
	}
	return out
}

// RingResonator is a silicon microring filter.
type RingResonator struct {
	Radius            float64 // μm
	Coupling          float64 // κ
	QualityFactor     float64
	FreeSpectralRange float64 // nm
}

func NewRingResonator() RingResonator {
	return RingResonator{
		Radius:            5,
		Coupling:          0.1,
		QualityFactor:     1e4,
		FreeSpectralRange: 20,
	}
}

// ResonanceWavelengths returns num resonances spaced by the FSR, starting
// ceil(num/2) orders below center.
func (r RingResonator) ResonanceWavelengths(center float64, num int) []float64 {
	if num <= 0 {
		return []float64{}
	}
	out := make([]float64, num)
	start := -(num + 1) / 2
	for i := range out {
		out[i] = center + r.FreeSpectralRange*float64(start+i)
	}
	return out
}

// TransmissionSpectrum evaluates the Lorentzian through-port response around resonance.
func (r RingResonator) TransmissionSpectrum(wavelengths []float64, resonance float64) []float64 {
	gamma := 1 / (2 * r.QualityFactor)
	out := make([]float64, len(wavelengths))
	for i, l := range wavelengths {
		delta := (l - resonance) / resonance
		out[i] = 1 - r.Coupling*r.Coupling/(delta*delta+gamma*gamma)
	}
	return out
}

// Performance is the headline figure set of a photonic processor.
type Performance struct {
	MatrixSize             int     `json:"matrix_size" yaml:"matrix_size"`
	WDMChannels            int     `json:"wdm_channels" yaml:"wdm_channels"`
	MatrixMultiplyTOPS     float64 `json:"matrix_multiply_tops" yaml:"matrix_multiply_tops"`
	TotalThroughputTOPS    float64 `json:"total_throughput_tops" yaml:"total_throughput_tops"`
	AggregateBandwidthTbps float64 `json:"aggregate_bandwidth_tbps" yaml:"aggregate_bandwidth_tbps"`
	FFTLatencyNs           float64 `json:"fft_latency_ns" yaml:"fft_latency_ns"`
	EnergyEfficiency       float64 `json:"energy_efficiency_tops_per_watt" yaml:"energy_efficiency_tops_per_watt"`
	SpeedupVsElectronic    float64 `json:"speedup_vs_electronic" yaml:"speedup_vs_electronic"`
}

// CalculatePerformance evaluates a matrixSize mesh replicated over channels wavelengths.
func CalculatePerformance(matrixSize, channels int) (Performance, error) {
	if matrixSize < 1 {
		return Performance{}, fmt.Errorf("%w: matrix size must be positive, got %d", ErrInvalidParameter, matrixSize)
	}
	wdm, err := NewWDM(channels)
	if err != nil {
		return Performance{}, err
	}
	fft, err := NewFFT(matrixSize)
	if err != nil {
		return Performance{}, err
	}
	mm := matrixThroughput(matrixSize)
	total := mm * float64(channels)
	return Performance{
		MatrixSize:             matrixSize,
		WDMChannels:            channels,
		MatrixMultiplyTOPS:     mm,
		TotalThroughputTOPS:    total,
		AggregateBandwidthTbps: wdm.AggregateBandwidth(),
		FFTLatencyNs:           fft.LatencyNs(),
		EnergyEfficiency:       total / systemPower,
		SpeedupVsElectronic:    ElectronicSpeedup,
	}, nil
}
