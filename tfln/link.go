package tfln

import (
	"fmt"

	"github.com/yyyoichi/lightrail/internal/bitconv"
	"github.com/yyyoichi/lightrail/internal/fec"
)

const (
	linkModulatorLength = 15.0 // mm
	linkModulatorGap    = 6.0  // μm

	laserPower     = 3.0   // dBm
	fiberLoss      = 0.2   // dB/km
	rxSensitivity  = -15.0 // dBm, PAM4 at BER 1e-15
	requiredMargin = 3.0   // dB
)

// Budget is the optical power budget of a link. A link is adequate only when
// its margin strictly exceeds 3 dB.
type Budget struct {
	TxPower       float64 `json:"tx_power_dbm" yaml:"tx_power_dbm"`
	FiberLoss     float64 `json:"fiber_loss_db" yaml:"fiber_loss_db"`
	RxSensitivity float64 `json:"rx_sensitivity_dbm" yaml:"rx_sensitivity_dbm"`
	Margin        float64 `json:"link_margin_db" yaml:"link_margin_db"`
	Adequate      bool    `json:"adequate" yaml:"adequate"`
}

// Metrics summarizes a link.
type Metrics struct {
	DataRate        float64 `json:"data_rate_gbps" yaml:"data_rate_gbps"`
	PayloadRate     float64 `json:"payload_rate_gbps" yaml:"payload_rate_gbps"`
	Modulation      string  `json:"modulation" yaml:"modulation"`
	HalfWaveVoltage float64 `json:"v_pi_volts" yaml:"v_pi_volts"`
	Bandwidth       float64 `json:"bandwidth_ghz" yaml:"bandwidth_ghz"`
	Power           float64 `json:"power_watts" yaml:"power_watts"`
	EnergyPerBit    float64 `json:"energy_per_bit_pj" yaml:"energy_per_bit_pj"`
	ExtinctionRatio float64 `json:"extinction_ratio_db" yaml:"extinction_ratio_db"`
	Budget          Budget  `json:"link_budget" yaml:"link_budget"`
}

// Link is a fiber link driven by a 15 mm, 6 μm gap X-cut Mach-Zehnder.
type Link struct {
	DataRate float64 // Gbps
	Reach    float64 // km
	Format   ModulationFormat

	modulator  MachZehnder
	fec        bool
	interleave *fec.Interleaver
}

// NewLink validates the link parameters. Reach may be zero for a back-to-back link.
func NewLink(dataRate, reach float64, format ModulationFormat, opts ...Option) (Link, error) {
	c, err := newConfig(opts)
	if err != nil {
		return Link{}, err
	}
	if err := positive("data rate", dataRate); err != nil {
		return Link{}, err
	}
	if reach < 0 {
		return Link{}, fmt.Errorf("%w: reach must not be negative, got %g", ErrInvalidParameter, reach)
	}
	if !format.Valid() {
		return Link{}, fmt.Errorf("%w: modulation format %d", ErrInvalidParameter, int(format))
	}
	m, err := NewMachZehnder(linkModulatorLength, linkModulatorGap, XCut, WithWavelength(c.wavelength))
	if err != nil {
		return Link{}, err
	}
	return Link{
		DataRate:   dataRate,
		Reach:      reach,
		Format:     format,
		modulator:  m,
		fec:        c.fec,
		interleave: c.interleave,
	}, nil
}

// Modulator returns the transmitter modulator.
func (l Link) Modulator() MachZehnder {
	return l.modulator
}

// Budget computes the link margin at the receiver.
func (l Link) Budget() Budget {
	tx := laserPower - l.modulator.InsertionLoss()
	loss := fiberLoss * l.Reach
	margin := tx - loss - rxSensitivity
	return Budget{
		TxPower:       tx,
		FiberLoss:     loss,
		RxSensitivity: rxSensitivity,
		Margin:        margin,
		Adequate:      margin > requiredMargin,
	}
}

// PayloadRate is the data rate left after FEC overhead, in Gbps.
func (l Link) PayloadRate() float64 {
	if l.fec {
		return l.DataRate * fec.Rate()
	}
	return l.DataRate
}

func (l Link) Metrics() Metrics {
	power := l.modulator.power(l.DataRate, l.Format)
	return Metrics{
		DataRate:        l.DataRate,
		PayloadRate:     l.PayloadRate(),
		Modulation:      l.Format.Label(),
		HalfWaveVoltage: l.modulator.HalfWaveVoltage(),
		Bandwidth:       l.modulator.ModulationBandwidth(),
		Power:           power,
		EnergyPerBit:    power / l.DataRate * 1000,
		ExtinctionRatio: l.modulator.ExtinctionRatio(),
		Budget:          l.Budget(),
	}
}

// Modulate FEC-encodes bits when enabled and maps them to drive voltages.
func (l Link) Modulate(bits []bool) ([]float64, error) {
	if l.fec {
		coded, err := fec.Encode(bits)
		if err != nil {
			return nil, err
		}
		if l.interleave != nil {
			coded = l.interleave.Interleave(coded)
		}
		// pad the line to whole symbols so no codeword bit is dropped
		if w := l.Format.BitsPerSymbol(); w > 0 && len(coded)%w != 0 {
			coded = append(coded, make([]bool, w-len(coded)%w)...)
		}
		bits = coded
	}
	return l.modulator.Encode(bits, l.Format)
}

// ModulateBytes is Modulate over the bits of data, MSB first.
func (l Link) ModulateBytes(data []byte) ([]float64, error) {
	return l.Modulate(bitconv.BytesToBools(data))
}

// Demodulate slices received drive voltages and returns the first n payload bits,
// correcting line errors when FEC is enabled.
func (l Link) Demodulate(levels []float64, n int) ([]bool, error) {
	bits, err := l.modulator.Decide(levels, l.Format)
	if err != nil {
		return nil, err
	}
	if l.fec {
		if l.interleave != nil {
			size := fec.EncodedLen(n)
			if n < 0 || size > len(bits) {
				return nil, fmt.Errorf("%w: %d symbols carry %d bits, want %d line bits", ErrInvalidParameter, len(levels), len(bits), size)
			}
			bits = l.interleave.Deinterleave(bits[:size])
		}
		return fec.Decode(bits, n)
	}
	if n > len(bits) || n < 0 {
		return nil, fmt.Errorf("%w: %d symbols carry %d bits, want %d", ErrInvalidParameter, len(levels), len(bits), n)
	}
	return bits[:n], nil
}
