// Package hybrid models FPGA hosts with photonic coprocessors: workload
// partitioning between the two, end-to-end matrix multiply timing and the
// linear scaling of a cluster of such nodes.
package hybrid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Family is an FPGA device family.
type Family int

const (
	Versal Family = iota
	UltraScalePlus
	Stratix10
	Agilex
)

var families = [...]struct {
	key   string
	name  string
	cells int
	dsp   int
}{
	Versal:         {"versal", "Xilinx Versal", 9000000, 4272},
	UltraScalePlus: {"ultrascale+", "Xilinx UltraScale+", 4500000, 12288},
	Stratix10:      {"stratix10", "Intel Stratix 10", 5500000, 5760},
	Agilex:         {"agilex", "Intel Agilex", 4000000, 3456},
}

func (f Family) Valid() bool {
	return f >= Versal && f <= Agilex
}

func (f Family) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return families[f].name
}

func (f Family) LogicCells() int {
	if !f.Valid() {
		return 0
	}
	return families[f].cells
}

func (f Family) DSPSlices() int {
	if !f.Valid() {
		return 0
	}
	return families[f].dsp
}

func (f Family) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: fpga family %d", ErrInvalidParameter, int(f))
	}
	return []byte(families[f].key), nil
}

func (f *Family) UnmarshalText(b []byte) error {
	v, err := ParseFamily(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFamily accepts the short keys ("versal", "ultrascale+", "stratix10",
// "agilex") and the full names.
func ParseFamily(s string) (Family, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	for f := Versal; f <= Agilex; f++ {
		if t == families[f].key || t == strings.ToLower(families[f].name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: fpga family %q", ErrInvalidParameter, s)
}

// FPGAConfig is the usable share of an FPGA device.
type FPGAConfig struct {
	Family           Family
	LogicUtilization float64 // 0..1
	DSPUtilization   float64 // 0..1
	BlockRAM         int     // MB
	Clock            int     // MHz
}

func DefaultFPGAConfig() FPGAConfig {
	return FPGAConfig{
		Family:           Versal,
		LogicUtilization: 0.75,
		DSPUtilization:   0.90,
		BlockRAM:         100,
		Clock:            500,
	}
}

func (c FPGAConfig) Validate() error {
	if !c.Family.Valid() {
		return fmt.Errorf("%w: fpga family %d", ErrInvalidParameter, int(c.Family))
	}
	if c.LogicUtilization <= 0 || c.LogicUtilization > 1 {
		return fmt.Errorf("%w: logic utilization %g outside (0, 1]", ErrInvalidParameter, c.LogicUtilization)
	}
	if c.DSPUtilization <= 0 || c.DSPUtilization > 1 {
		return fmt.Errorf("%w: dsp utilization %g outside (0, 1]", ErrInvalidParameter, c.DSPUtilization)
	}
	if c.BlockRAM < 0 {
		return fmt.Errorf("%w: block ram %d MB", ErrInvalidParameter, c.BlockRAM)
	}
	if c.Clock <= 0 {
		return fmt.Errorf("%w: clock %d MHz", ErrInvalidParameter, c.Clock)
	}
	return nil
}

func (c FPGAConfig) AvailableLogicCells() int {
	return int(float64(c.Family.LogicCells()) * c.LogicUtilization)
}

func (c FPGAConfig) AvailableDSPSlices() int {
	return int(float64(c.Family.DSPSlices()) * c.DSPUtilization)
}

// ComputeGFLOPS counts one multiply-accumulate (2 FLOPs) per DSP slice per cycle.
func (c FPGAConfig) ComputeGFLOPS() float64 {
	return float64(c.AvailableDSPSlices()*2*c.Clock) / 1000
}
