// Package pcie models the host side of a photonic accelerator card: link
// bandwidth per PCIe generation, a simulated DMA ledger, the memory-mapped
// control registers, single boards and multi-board clusters.
package pcie

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
)

// 128b/130b line coding from Gen3 onwards.
const encodingEfficiency = 128.0 / 130.0

type Generation int

const (
	Gen3 Generation = iota
	Gen4
	Gen5
	Gen6
)

var generations = [...]struct {
	rate  float64 // GT/s per lane
	label string
}{
	Gen3: {8, "8 GT/s"},
	Gen4: {16, "16 GT/s"},
	Gen5: {32, "32 GT/s"},
	Gen6: {64, "64 GT/s"},
}

func (g Generation) Valid() bool {
	return g >= Gen3 && g <= Gen6
}

// Rate is the per-lane transfer rate in GT/s.
func (g Generation) Rate() float64 {
	if !g.Valid() {
		return 0
	}
	return generations[g].rate
}

// Label returns the rate string, e.g. "32 GT/s".
func (g Generation) Label() string {
	if !g.Valid() {
		return ""
	}
	return generations[g].label
}

func (g Generation) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Generation(%d)", int(g))
	}
	return fmt.Sprintf("Gen%d", int(g)+3)
}

func (g Generation) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: pcie generation %d", ErrInvalidParameter, int(g))
	}
	return []byte(g.String()), nil
}

func (g *Generation) UnmarshalText(b []byte) error {
	v, err := ParseGeneration(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseGeneration accepts "gen5", "Gen5" or "5".
func ParseGeneration(s string) (Generation, error) {
	t := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "gen")
	for g := Gen3; g <= Gen6; g++ {
		if t == fmt.Sprint(int(g)+3) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: pcie generation %q", ErrInvalidParameter, s)
}

// Config is a PCIe link configuration. The zero value is not valid; use
// DefaultConfig or NewConfig.
type Config struct {
	Generation     Generation
	Lanes          int
	MaxPayloadSize int // bytes
	MaxReadRequest int // bytes
}

// DefaultConfig is a Gen5 x16 slot.
func DefaultConfig() Config {
	return Config{
		Generation:     Gen5,
		Lanes:          16,
		MaxPayloadSize: 512,
		MaxReadRequest: 4096,
	}
}

func NewConfig(gen Generation, lanes int) (Config, error) {
	if !gen.Valid() {
		return Config{}, fmt.Errorf("%w: pcie generation %d", ErrInvalidParameter, int(gen))
	}
	if lanes < 1 {
		return Config{}, fmt.Errorf("%w: lane count must be positive, got %d", ErrInvalidParameter, lanes)
	}
	c := DefaultConfig()
	c.Generation = gen
	c.Lanes = lanes
	return c, nil
}

// BandwidthGbps is the effective link bandwidth after line coding.
func (c Config) BandwidthGbps() float64 {
	return c.Generation.Rate() * float64(c.Lanes) * encodingEfficiency
}

func (c Config) BandwidthGBps() float64 {
	return c.BandwidthGbps() / 8
}

// TransferTime returns the time in ms to move size bytes across the link.
func (c Config) TransferTime(size int) float64 {
	return float64(size) * 8 / (c.BandwidthGbps() * 1e9) * 1000
}
