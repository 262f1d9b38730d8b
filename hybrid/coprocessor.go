package hybrid

import "fmt"

// Coprocessor is a photonic matrix engine attached to the FPGA.
type Coprocessor struct {
	MatrixSize int
	Latency    float64 // ns
	Power      float64 // mW
}

func NewCoprocessor(matrixSize int) (Coprocessor, error) {
	if matrixSize < 2 {
		return Coprocessor{}, fmt.Errorf("%w: coprocessor matrix size must be at least 2, got %d", ErrInvalidParameter, matrixSize)
	}
	return Coprocessor{MatrixSize: matrixSize, Latency: 10, Power: 500}, nil
}

func (c Coprocessor) NumMZI() int {
	return c.MatrixSize * (c.MatrixSize - 1) / 2
}

// NumPhaseShifters counts two shifters per MZI.
func (c Coprocessor) NumPhaseShifters() int {
	return 2 * c.NumMZI()
}

// MatrixMultiplyOps is 2·size³.
func (Coprocessor) MatrixMultiplyOps(size int) float64 {
	s := float64(size)
	return 2 * s * s * s
}

func (c Coprocessor) ThroughputTOPS(size int) float64 {
	return c.MatrixMultiplyOps(size) / (c.Latency * 1e-9) / 1e12
}

func (c Coprocessor) EnergyPerOpPJ(size int) float64 {
	return c.Power * c.Latency / c.MatrixMultiplyOps(size)
}
