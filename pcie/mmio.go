package pcie

import (
	"fmt"
	"math"
	"sync"
)

// DefaultBaseAddress of the MMIO window.
const DefaultBaseAddress uint64 = 0xF0000000

// Register is a 32-bit control register; its value is the byte offset from
// the MMIO base.
type Register uint32

const (
	Control            Register = 0x00
	Status             Register = 0x04
	LaserPower         Register = 0x08
	ModulatorBias      Register = 0x0C
	PhaseShifter0      Register = 0x10
	PhaseShifter1      Register = 0x14
	WDMChannelSelect   Register = 0x18
	DetectorThreshold  Register = 0x1C
	InterruptEnable    Register = 0x20
	InterruptStatus    Register = 0x24
	DMAControl         Register = 0x28
	PerformanceCounter Register = 0x2C

	numRegisters = int(PerformanceCounter/4) + 1
)

var registerNames = [numRegisters]string{
	"CONTROL",
	"STATUS",
	"LASER_POWER",
	"MODULATOR_BIAS",
	"PHASE_SHIFTER_0",
	"PHASE_SHIFTER_1",
	"WDM_CHANNEL_SELECT",
	"DETECTOR_THRESHOLD",
	"INTERRUPT_ENABLE",
	"INTERRUPT_STATUS",
	"DMA_CONTROL",
	"PERFORMANCE_COUNTER",
}

func (r Register) Valid() bool {
	return r%4 == 0 && int(r/4) < numRegisters
}

func (r Register) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Register(%#x)", uint32(r))
	}
	return registerNames[r/4]
}

const (
	laserDACMax    = 4095  // 12-bit
	phaseDACMax    = 65535 // 16-bit
	laserFullScale = 100.0 // mW
)

// MMIO is the register file of the photonic processor.
type MMIO struct {
	base uint64

	mu   sync.RWMutex
	regs [numRegisters]uint32
}

func NewMMIO(base uint64) *MMIO {
	return &MMIO{base: base}
}

// Address returns the bus address of r.
func (m *MMIO) Address(r Register) (uint64, error) {
	if !r.Valid() {
		return 0, fmt.Errorf("%w: register %v", ErrInvalidParameter, r)
	}
	return m.base + uint64(r), nil
}

func (m *MMIO) Write(r Register, v uint32) error {
	if !r.Valid() {
		return fmt.Errorf("%w: register %v", ErrInvalidParameter, r)
	}
	m.mu.Lock()
	m.regs[r/4] = v
	m.mu.Unlock()
	return nil
}

func (m *MMIO) Read(r Register) (uint32, error) {
	if !r.Valid() {
		return 0, fmt.Errorf("%w: register %v", ErrInvalidParameter, r)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.regs[r/4], nil
}

// ConfigureLaser scales mW onto the 12-bit laser DAC, 100 mW full scale.
func (m *MMIO) ConfigureLaser(mW float64) error {
	if mW < 0 || mW > laserFullScale {
		return fmt.Errorf("%w: laser power %g mW outside [0, %g]", ErrInvalidParameter, mW, laserFullScale)
	}
	return m.Write(LaserPower, uint32(mW/laserFullScale*laserDACMax))
}

// SetPhaseShifter scales a phase in [0, 2π] onto the 16-bit DAC of shifter 0 or 1.
func (m *MMIO) SetPhaseShifter(index int, rad float64) error {
	if rad < 0 || rad > 2*math.Pi {
		return fmt.Errorf("%w: phase %g rad outside [0, 2π]", ErrInvalidParameter, rad)
	}
	v := uint32(rad / (2 * math.Pi) * phaseDACMax)
	switch index {
	case 0:
		return m.Write(PhaseShifter0, v)
	case 1:
		return m.Write(PhaseShifter1, v)
	}
	return fmt.Errorf("%w: phase shifter %d", ErrInvalidParameter, index)
}
