package hybrid

import (
	"fmt"

	"github.com/yyyoichi/lightrail/internal/fec"
	"github.com/yyyoichi/lightrail/tfln"
)

const ioLatency = 5.0 // ns, serialization + flight + deserialization

// Transceiver is the optical front end of one I/O channel.
type Transceiver struct {
	Wavelength  float64 // nm
	Modulation  tfln.ModulationFormat
	FEC         bool
	Power       float64 // dBm
	Sensitivity float64 // dBm
}

// Link returns the TFLN link model of this transceiver at rate Gbps over reach km.
func (t Transceiver) Link(rate, reach float64) (tfln.Link, error) {
	opts := []tfln.Option{tfln.WithWavelength(t.Wavelength)}
	if t.FEC {
		opts = append(opts, tfln.WithFEC())
	}
	return tfln.NewLink(rate, reach, t.Modulation, opts...)
}

// OpticalIO is the bank of optical channels between the FPGA and the
// photonic coprocessor.
type OpticalIO struct {
	Channels    int
	ChannelRate float64 // Gbps
	Transceiver Transceiver
}

// NewOpticalIO returns channels x 100 Gbps of PAM4 at 1550 nm with FEC.
func NewOpticalIO(channels int) (OpticalIO, error) {
	if channels < 1 {
		return OpticalIO{}, fmt.Errorf("%w: optical channel count must be positive, got %d", ErrInvalidParameter, channels)
	}
	return OpticalIO{
		Channels:    channels,
		ChannelRate: 100,
		Transceiver: Transceiver{
			Wavelength:  tfln.DefaultWavelength,
			Modulation:  tfln.PAM4,
			FEC:         true,
			Power:       0,
			Sensitivity: -20,
		},
	}, nil
}

// AggregateBandwidthTbps is the raw line rate of all channels.
func (o OpticalIO) AggregateBandwidthTbps() float64 {
	return float64(o.Channels) * o.ChannelRate / 1000
}

// PayloadBandwidthTbps is the line rate left after FEC parity.
func (o OpticalIO) PayloadBandwidthTbps() float64 {
	if !o.Transceiver.FEC {
		return o.AggregateBandwidthTbps()
	}
	return o.AggregateBandwidthTbps() * fec.Rate()
}

func (OpticalIO) LatencyNs() float64 {
	return ioLatency
}
