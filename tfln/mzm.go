package tfln

import (
	"fmt"
	"math"

	"github.com/yyyoichi/lightrail/internal/bitconv"
	"github.com/yyyoichi/lightrail/internal/material"
	"github.com/yyyoichi/lightrail/internal/waveguide"
)

const (
	// DefaultOverlap is the electro-optic overlap factor Γ.
	DefaultOverlap = 0.8
	// DefaultPhaseImbalance between the two arms, in units of π.
	DefaultPhaseImbalance = 0.01

	mzmWidth  = 1.5 // μm
	mzmHeight = 0.6 // μm

	rfVelocity         = 1.2e8 // m/s, traveling-wave electrode
	electrodeBandwidth = 120.0 // GHz, electrode-loss limit
	maxExtinction      = 45.0  // dB
	splitLoss          = 0.1   // dB, Y-junction
	couplingLoss       = 0.5   // dB, fiber to chip
	driverPower        = 0.4   // W

	// electrodeCapacitance is multiplied by the interaction length in meters.
	electrodeCapacitance = 0.15e-12
)

// MachZehnder is a traveling-wave TFLN Mach-Zehnder modulator.
type MachZehnder struct {
	InteractionLength float64 // mm
	ElectrodeGap      float64 // μm
	Cut               WaferCut
	Wavelength        float64 // nm

	wg      waveguide.TFLN
	pockels float64
}

// NewMachZehnder builds a modulator on a 1.5 x 0.6 μm ridge as long as the electrodes.
func NewMachZehnder(interactionLength, electrodeGap float64, cut WaferCut, opts ...Option) (MachZehnder, error) {
	c, err := newConfig(opts)
	if err != nil {
		return MachZehnder{}, err
	}
	if err := positive("electrode gap", electrodeGap); err != nil {
		return MachZehnder{}, err
	}
	wg, err := waveguide.NewTFLN(mzmWidth, mzmHeight, interactionLength, cut, c.wavelength)
	if err != nil {
		return MachZehnder{}, fmt.Errorf("%w:%w", ErrInvalidParameter, err)
	}
	r, err := wg.Material().Pockels(cut)
	if err != nil {
		return MachZehnder{}, fmt.Errorf("%w:%w", ErrInvalidParameter, err)
	}
	return MachZehnder{
		InteractionLength: interactionLength,
		ElectrodeGap:      electrodeGap,
		Cut:               cut,
		Wavelength:        c.wavelength,
		wg:                wg,
		pockels:           r,
	}, nil
}

// Waveguide returns the ridge under the electrodes.
func (m MachZehnder) Waveguide() waveguide.TFLN {
	return m.wg
}

// HalfWaveVoltage returns Vπ in volts at the default overlap factor.
func (m MachZehnder) HalfWaveVoltage() float64 {
	return m.HalfWaveVoltageAt(DefaultOverlap)
}

// HalfWaveVoltageAt returns Vπ = λ·d / (n³·r·Γ·L).
func (m MachZehnder) HalfWaveVoltageAt(overlap float64) float64 {
	n := m.wg.EffectiveIndex(material.TE)
	wavelength := m.Wavelength * 1e-9
	gap := m.ElectrodeGap * 1e-6
	length := m.InteractionLength * 1e-3
	return (wavelength * gap) / (n * n * n * m.pockels * 1e-12 * overlap * length)
}

// ModulationBandwidth returns the 3-dB bandwidth in GHz, the lower of the
// velocity-mismatch limit and the electrode-loss limit.
func (m MachZehnder) ModulationBandwidth() float64 {
	vo := m.wg.GroupVelocity(material.TE)
	dv := math.Abs(vo - rfVelocity)
	if dv == 0 {
		return electrodeBandwidth
	}
	length := m.InteractionLength * 1e-3
	f := 0.44 * vo / (dv * length) / 1e9
	return math.Min(f, electrodeBandwidth)
}

// ExtinctionRatio in dB at the default phase imbalance.
func (m MachZehnder) ExtinctionRatio() float64 {
	return m.ExtinctionRatioAt(DefaultPhaseImbalance)
}

// ExtinctionRatioAt returns the ER limited by an arm phase imbalance (units of π), capped at 45 dB.
func (m MachZehnder) ExtinctionRatioAt(imbalance float64) float64 {
	er := -10 * math.Log10(math.Pow(math.Pi*imbalance, 2))
	return math.Min(er, maxExtinction)
}

// InsertionLoss in dB: waveguide, splitter and fiber coupling.
func (m MachZehnder) InsertionLoss() float64 {
	return m.wg.PropagationLoss(material.TE) + splitLoss + couplingLoss
}

// PowerConsumption returns the electrical power in W needed to drive rate Gbps in format f.
func (m MachZehnder) PowerConsumption(rate float64, f ModulationFormat) (float64, error) {
	if !f.Valid() {
		return 0, fmt.Errorf("%w: modulation format %d", ErrInvalidParameter, int(f))
	}
	if rate < 0 {
		return 0, fmt.Errorf("%w: data rate must not be negative, got %g", ErrInvalidParameter, rate)
	}
	return m.power(rate, f), nil
}

func (m MachZehnder) power(rate float64, f ModulationFormat) float64 {
	vpi := m.HalfWaveVoltage()
	var drive float64
	switch f {
	case OOK, PAM4:
		drive = vpi
	case PAM8:
		drive = 1.2 * vpi
	default:
		drive = 1.5 * vpi
	}
	capacitance := electrodeCapacitance * m.InteractionLength * 1e-3
	// only PAM4 halves the symbol rate in this model
	symbolRate := rate
	if f == PAM4 {
		symbolRate = rate / 2
	}
	return capacitance*drive*drive*symbolRate*1e9 + driverPower
}

// Transmission returns the normalized optical output at drive voltage v.
func (m MachZehnder) Transmission(v float64) float64 {
	return transfer(v, m.HalfWaveVoltage())
}

// TransferFunction evaluates Transmission for every voltage.
func (m MachZehnder) TransferFunction(v []float64) []float64 {
	vpi := m.HalfWaveVoltage()
	out := make([]float64, len(v))
	for i := range v {
		out[i] = transfer(v[i], vpi)
	}
	return out
}

func transfer(v, vpi float64) float64 {
	return 0.5 * (1 + math.Cos(math.Pi*v/vpi))
}

// EncodePAM4 maps bit pairs (first bit most significant) to {0, Vπ/3, 2Vπ/3, Vπ}.
// An odd trailing bit is dropped.
func (m MachZehnder) EncodePAM4(bits []bool) []float64 {
	return encodePAM(bits, 2, m.HalfWaveVoltage())
}

// EncodePAM8 maps bit triples to eight equally spaced levels in [0, Vπ].
// A trailing partial symbol is dropped.
func (m MachZehnder) EncodePAM8(bits []bool) []float64 {
	return encodePAM(bits, 3, m.HalfWaveVoltage())
}

// Encode maps bits to drive voltages for an intensity format.
// QAM formats need an I/Q modulator and return ErrUnsupported.
func (m MachZehnder) Encode(bits []bool, f ModulationFormat) ([]float64, error) {
	if !f.intensity() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, f)
	}
	return encodePAM(bits, f.BitsPerSymbol(), m.HalfWaveVoltage()), nil
}

// Decide slices drive voltages back to bits, choosing the nearest level.
func (m MachZehnder) Decide(levels []float64, f ModulationFormat) ([]bool, error) {
	if !f.intensity() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, f)
	}
	width := f.BitsPerSymbol()
	vpi := m.HalfWaveVoltage()
	top := float64(int(1)<<width - 1)
	symbols := make([]uint8, len(levels))
	for i, v := range levels {
		s := math.Round(v / vpi * top)
		symbols[i] = uint8(math.Max(0, math.Min(s, top)))
	}
	return bitconv.FromSymbols(symbols, width), nil
}

func encodePAM(bits []bool, width int, vpi float64) []float64 {
	top := float64(int(1)<<width - 1)
	symbols := bitconv.Symbols(bits, width)
	out := make([]float64, len(symbols))
	for i, s := range symbols {
		out[i] = float64(s) * vpi / top
	}
	return out
}
