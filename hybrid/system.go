package hybrid

import "fmt"

// TaskType names a workload kind. Unknown kinds are routed entirely to the FPGA.
type TaskType string

const (
	MatMul TaskType = "matmul"
	FFT    TaskType = "fft"
	Conv   TaskType = "conv"
)

// Unit is where a partitioned workload mainly runs.
type Unit string

const (
	UnitFPGA     Unit = "fpga"
	UnitPhotonic Unit = "photonic"
	UnitHybrid   Unit = "hybrid"
)

// matrices at least this large go to the photonic unit
const photonicThreshold = 512

// Partition splits a workload between the FPGA and the photonic unit.
type Partition struct {
	FPGAFraction     float64 `json:"fpga_fraction" yaml:"fpga_fraction"`
	PhotonicFraction float64 `json:"photonic_fraction" yaml:"photonic_fraction"`
	Recommended      Unit    `json:"recommended_unit" yaml:"recommended_unit"`
}

// Result is the timing of one hybrid matrix multiply.
type Result struct {
	Size         int       `json:"size" yaml:"size"`
	FPGATime     float64   `json:"fpga_time_ms" yaml:"fpga_time_ms"`
	PhotonicTime float64   `json:"photonic_time_ns" yaml:"photonic_time_ns"`
	TransferTime float64   `json:"transfer_time_ms" yaml:"transfer_time_ms"`
	TotalTime    float64   `json:"total_time_ms" yaml:"total_time_ms"`
	TFLOPS       float64   `json:"throughput_tflops" yaml:"throughput_tflops"`
	Partition    Partition `json:"partition" yaml:"partition"`
}

type Option func(*System) error

// WithFPGA replaces the default FPGA configuration.
func WithFPGA(c FPGAConfig) Option {
	return func(s *System) error {
		if err := c.Validate(); err != nil {
			return err
		}
		s.FPGA = c
		return nil
	}
}

// WithFamily keeps the default utilization and clock on another device family.
func WithFamily(f Family) Option {
	return func(s *System) error {
		if !f.Valid() {
			return fmt.Errorf("%w: fpga family %d", ErrInvalidParameter, int(f))
		}
		s.FPGA.Family = f
		return nil
	}
}

func WithOpticalChannels(n int) Option {
	return func(s *System) error {
		io, err := NewOpticalIO(n)
		if err != nil {
			return err
		}
		s.IO = io
		return nil
	}
}

// System is one hybrid node: an FPGA, its optical I/O and a bank of
// photonic coprocessors.
type System struct {
	FPGA          FPGAConfig
	IO            OpticalIO
	Coprocessor   Coprocessor
	PhotonicUnits int
	DDR           int // GB
	HBM           int // GB
}

// NewSystem builds a Versal node with 32 optical channels and four 2048x2048
// coprocessors.
func NewSystem(opts ...Option) (*System, error) {
	io, err := NewOpticalIO(32)
	if err != nil {
		return nil, err
	}
	cp, err := NewCoprocessor(2048)
	if err != nil {
		return nil, err
	}
	s := &System{
		FPGA:          DefaultFPGAConfig(),
		IO:            io,
		Coprocessor:   cp,
		PhotonicUnits: 4,
		DDR:           64,
		HBM:           32,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// PartitionWorkload picks the split for task at the given problem size.
func (s *System) PartitionWorkload(task TaskType, size int) Partition {
	switch task {
	case MatMul:
		if size >= photonicThreshold {
			return Partition{0.1, 0.9, UnitPhotonic}
		}
		return Partition{0.8, 0.2, UnitFPGA}
	case FFT:
		return Partition{0.2, 0.8, UnitPhotonic}
	case Conv:
		return Partition{0.5, 0.5, UnitHybrid}
	}
	return Partition{1.0, 0.0, UnitFPGA}
}

// ExecuteMatrixMultiply times a size x size float32 multiply: FPGA
// preprocessing of its share of size² elements, one coprocessor pass and the
// transfer of the operand over the optical I/O.
func (s *System) ExecuteMatrixMultiply(size int) (Result, error) {
	if size < 1 {
		return Result{}, fmt.Errorf("%w: matrix size must be positive, got %d", ErrInvalidParameter, size)
	}
	p := s.PartitionWorkload(MatMul, size)
	n := float64(size)

	fpgaMs := n * n * p.FPGAFraction / (s.FPGA.ComputeGFLOPS() * 1e9) * 1000
	photonicNs := s.Coprocessor.Latency
	gb := n * n * 4 / 1e9
	transferMs := gb / s.IO.AggregateBandwidthTbps() * 1000
	total := fpgaMs + photonicNs/1e6 + transferMs

	return Result{
		Size:         size,
		FPGATime:     fpgaMs,
		PhotonicTime: photonicNs,
		TransferTime: transferMs,
		TotalTime:    total,
		TFLOPS:       2 * n * n * n / (total / 1000) / 1e12,
		Partition:    p,
	}, nil
}

type FPGASpecs struct {
	Family        string  `json:"family" yaml:"family"`
	LogicCells    int     `json:"logic_cells" yaml:"logic_cells"`
	DSPSlices     int     `json:"dsp_slices" yaml:"dsp_slices"`
	Clock         int     `json:"clock_mhz" yaml:"clock_mhz"`
	ComputeGFLOPS float64 `json:"compute_gflops" yaml:"compute_gflops"`
}

type PhotonicSpecs struct {
	Units      int     `json:"num_units" yaml:"num_units"`
	MatrixSize int     `json:"matrix_size" yaml:"matrix_size"`
	Latency    float64 `json:"latency_ns" yaml:"latency_ns"`
	Power      float64 `json:"power_mw" yaml:"power_mw"`
	TOPS       float64 `json:"throughput_tops" yaml:"throughput_tops"`
}

type IOSpecs struct {
	Channels      int     `json:"num_channels" yaml:"num_channels"`
	ChannelRate   float64 `json:"channel_rate_gbps" yaml:"channel_rate_gbps"`
	BandwidthTbps float64 `json:"total_bandwidth_tbps" yaml:"total_bandwidth_tbps"`
	PayloadTbps   float64 `json:"payload_bandwidth_tbps" yaml:"payload_bandwidth_tbps"`
}

type MemorySpecs struct {
	BlockRAM int `json:"fpga_bram_mb" yaml:"fpga_bram_mb"`
	DDR      int `json:"ddr_gb" yaml:"ddr_gb"`
	HBM      int `json:"hbm_gb" yaml:"hbm_gb"`
}

// Specs is the data sheet of a System.
type Specs struct {
	FPGA      FPGASpecs     `json:"fpga" yaml:"fpga"`
	Photonic  PhotonicSpecs `json:"photonic" yaml:"photonic"`
	OpticalIO IOSpecs       `json:"optical_io" yaml:"optical_io"`
	Memory    MemorySpecs   `json:"memory" yaml:"memory"`
}

func (s *System) Specs() Specs {
	return Specs{
		FPGA: FPGASpecs{
			Family:        s.FPGA.Family.String(),
			LogicCells:    s.FPGA.AvailableLogicCells(),
			DSPSlices:     s.FPGA.AvailableDSPSlices(),
			Clock:         s.FPGA.Clock,
			ComputeGFLOPS: s.FPGA.ComputeGFLOPS(),
		},
		Photonic: PhotonicSpecs{
			Units:      s.PhotonicUnits,
			MatrixSize: s.Coprocessor.MatrixSize,
			Latency:    s.Coprocessor.Latency,
			Power:      s.Coprocessor.Power,
			TOPS:       s.Coprocessor.ThroughputTOPS(s.Coprocessor.MatrixSize),
		},
		OpticalIO: IOSpecs{
			Channels:      s.IO.Channels,
			ChannelRate:   s.IO.ChannelRate,
			BandwidthTbps: s.IO.AggregateBandwidthTbps(),
			PayloadTbps:   s.IO.PayloadBandwidthTbps(),
		},
		Memory: MemorySpecs{
			BlockRAM: s.FPGA.BlockRAM,
			DDR:      s.DDR,
			HBM:      s.HBM,
		},
	}
}
