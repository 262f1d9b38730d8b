// Package tfln models thin-film lithium niobate (TFLN) electro-optic devices:
// Mach-Zehnder and ring modulators, a second-harmonic frequency doubler,
// a 2x2 switch and a point-to-point link budget.
//
// Every model is a value computed from its construction parameters. Values
// are safe to share between goroutines.
package tfln

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/lightrail/internal/fec"
	"github.com/yyyoichi/lightrail/internal/material"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrUnsupported      = errors.New("unsupported modulation format")
)

type (
	WaferCut     = material.WaferCut
	Polarization = material.Polarization
)

const (
	XCut = material.XCut
	YCut = material.YCut
	ZCut = material.ZCut

	TE = material.TE
	TM = material.TM
)

// DefaultWavelength is the C-band carrier in nm.
const DefaultWavelength = 1550.0

// ParseWaferCut parses "x", "X-cut", "z_cut" and similar.
func ParseWaferCut(s string) (WaferCut, error) {
	c, err := material.ParseWaferCut(s)
	if err != nil {
		return 0, fmt.Errorf("%w:%w", ErrInvalidParameter, err)
	}
	return c, nil
}

type Option func(*config) error

type config struct {
	wavelength float64
	fec        bool
	interleave *fec.Interleaver
}

// WithWavelength sets the optical carrier (or pump) wavelength in nm.
func WithWavelength(nm float64) Option {
	return func(c *config) error {
		if !(nm > 0) {
			return fmt.Errorf("%w: wavelength must be positive, got %g", ErrInvalidParameter, nm)
		}
		c.wavelength = nm
		return nil
	}
}

// WithFEC protects link payloads with a Golay(23,12) code.
// Devices other than Link ignore it.
func WithFEC() Option {
	return func(c *config) error {
		c.fec = true
		return nil
	}
}

// WithInterleaving enables FEC and spreads every coded frame with a
// permutation seeded by seed. Devices other than Link ignore it.
func WithInterleaving(seed int64) Option {
	return func(c *config) error {
		il := fec.Interleaver(seed)
		c.fec = true
		c.interleave = &il
		return nil
	}
}

func newConfig(opts []Option) (config, error) {
	var c config
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return config{}, err
		}
	}
	if c.wavelength == 0 {
		c.wavelength = DefaultWavelength
	}
	return c, nil
}

func positive(name string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidParameter, name, v)
	}
	return nil
}
