package tfln

import "math"

const (
	switchGap     = 6.0  // μm
	lineImpedance = 50.0 // Ω
)

// Switch is a 2x2 electro-optic switch built from a Mach-Zehnder with a 6 μm gap.
type Switch struct {
	mzm MachZehnder
}

func NewSwitch(interactionLength float64, cut WaferCut, opts ...Option) (Switch, error) {
	m, err := NewMachZehnder(interactionLength, switchGap, cut, opts...)
	if err != nil {
		return Switch{}, err
	}
	return Switch{mzm: m}, nil
}

// SwitchingVoltage is the bar-to-cross voltage, Vπ.
func (s Switch) SwitchingVoltage() float64 {
	return s.mzm.HalfWaveVoltage()
}

// SwitchingTime in ns, the longer of the RC constant and the electrode transit time.
func (s Switch) SwitchingTime() float64 {
	length := s.mzm.InteractionLength * 1e-3
	capacitance := electrodeCapacitance * length
	rc := lineImpedance * capacitance * 1e9
	transit := length / rfVelocity * 1e9
	return math.Max(rc, transit)
}

// Crosstalk in dB between output ports.
func (s Switch) Crosstalk() float64 {
	return -s.mzm.ExtinctionRatio()
}
