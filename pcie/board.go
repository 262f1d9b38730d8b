package pcie

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

const (
	boardDMAChannels = 8
	boardLaserPower  = 50.0 // mW

	// optical compute is one pass through the mesh
	computeTime   = 10.0 // ns
	computeEnergy = 0.1  // pJ/ns

	// host and device buffers used by TransferToDevice
	hostBuffer   uint64 = 0x10000000
	deviceBuffer uint64 = 0x20000000
)

// BoardInfo describes a board.
type BoardInfo struct {
	Generation    string  `json:"pcie_generation" yaml:"pcie_generation"`
	Lanes         int     `json:"pcie_lanes" yaml:"pcie_lanes"`
	BandwidthGbps float64 `json:"pcie_bandwidth_gbps" yaml:"pcie_bandwidth_gbps"`
	FormFactor    string  `json:"form_factor" yaml:"form_factor"`
	Power         float64 `json:"power_consumption_w" yaml:"power_consumption_w"`
	OpticalPorts  int     `json:"num_optical_ports" yaml:"num_optical_ports"`
	Lasers        int     `json:"num_lasers" yaml:"num_lasers"`
	Modulators    int     `json:"num_modulators" yaml:"num_modulators"`
	Detectors     int     `json:"num_detectors" yaml:"num_detectors"`
	MatrixSize    int     `json:"matrix_size" yaml:"matrix_size"`
	DMAChannels   int     `json:"dma_channels" yaml:"dma_channels"`
}

// ComputeResult is the outcome of one optical matrix multiply.
type ComputeResult struct {
	Size        int     `json:"size" yaml:"size"`
	ComputeTime float64 `json:"compute_time_ns" yaml:"compute_time_ns"`
	Throughput  float64 `json:"throughput_tops" yaml:"throughput_tops"`
	Energy      float64 `json:"energy_pj" yaml:"energy_pj"`
}

// Board is a half-height half-length PCIe card carrying a photonic processor.
type Board struct {
	PCIe         Config
	FormFactor   string
	Power        float64 // W
	OpticalPorts int
	Lasers       int
	Modulators   int
	Detectors    int
	MatrixSize   int

	dma  *DMAEngine
	mmio *MMIO
}

func NewBoard(cfg Config) (*Board, error) {
	if _, err := NewConfig(cfg.Generation, cfg.Lanes); err != nil {
		return nil, err
	}
	dma, err := NewDMAEngine(boardDMAChannels)
	if err != nil {
		return nil, err
	}
	return &Board{
		PCIe:         cfg,
		FormFactor:   "HHHL",
		Power:        75,
		OpticalPorts: 16,
		Lasers:       4,
		Modulators:   64,
		Detectors:    64,
		MatrixSize:   1024,
		dma:          dma,
		mmio:         NewMMIO(DefaultBaseAddress),
	}, nil
}

func (b *Board) DMA() *DMAEngine {
	return b.dma
}

func (b *Board) MMIO() *MMIO {
	return b.mmio
}

// Initialize powers the lasers, pulses the processor reset and enables all
// interrupts. The logger is taken from ctx.
func (b *Board) Initialize(ctx context.Context) error {
	logger := logr.FromContextOrDiscard(ctx)
	logger.V(1).Info("initializing board",
		"pcie", b.PCIe.Generation.Label(),
		"lanes", b.PCIe.Lanes,
		"bandwidthGBps", b.PCIe.BandwidthGBps())

	for i := 0; i < b.Lasers; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.mmio.ConfigureLaser(boardLaserPower); err != nil {
			return fmt.Errorf("laser %d: %w", i, err)
		}
	}
	for _, w := range []struct {
		reg Register
		val uint32
	}{
		{Control, 0x0001},
		{Control, 0x0000},
		{InterruptEnable, 0xFFFF},
	} {
		if err := b.mmio.Write(w.reg, w.val); err != nil {
			return err
		}
	}

	logger.V(1).Info("photonic processor initialized",
		"opticalPorts", b.OpticalPorts,
		"matrixSize", b.MatrixSize)
	return nil
}

// TransferToDevice moves size bytes from host to device memory over DMA
// channel 0 and returns the link transfer time in ms.
func (b *Board) TransferToDevice(size int) (float64, error) {
	err := b.dma.InitiateTransfer(0, Transfer{
		Source:      hostBuffer,
		Destination: deviceBuffer,
		Size:        size,
		Direction:   HostToDevice,
	})
	if err != nil {
		return 0, err
	}
	b.dma.ProcessTransfers()
	return b.PCIe.TransferTime(size), nil
}

// ExecuteMatrixMultiply reports a size x size multiply, 2·size³ operations
// in a single 10 ns optical pass.
func (b *Board) ExecuteMatrixMultiply(size int) (ComputeResult, error) {
	if size < 1 {
		return ComputeResult{}, fmt.Errorf("%w: matrix size must be positive, got %d", ErrInvalidParameter, size)
	}
	ops := 2 * float64(size) * float64(size) * float64(size)
	return ComputeResult{
		Size:        size,
		ComputeTime: computeTime,
		Throughput:  ops / (computeTime * 1e-9) / 1e12,
		Energy:      computeTime * computeEnergy,
	}, nil
}

func (b *Board) Info() BoardInfo {
	return BoardInfo{
		Generation:    b.PCIe.Generation.Label(),
		Lanes:         b.PCIe.Lanes,
		BandwidthGbps: b.PCIe.BandwidthGbps(),
		FormFactor:    b.FormFactor,
		Power:         b.Power,
		OpticalPorts:  b.OpticalPorts,
		Lasers:        b.Lasers,
		Modulators:    b.Modulators,
		Detectors:     b.Detectors,
		MatrixSize:    b.MatrixSize,
		DMAChannels:   b.dma.Channels(),
	}
}
