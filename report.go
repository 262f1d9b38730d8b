package lightrail

import (
	"fmt"

	"github.com/yyyoichi/lightrail/hybrid"
	"github.com/yyyoichi/lightrail/optical"
	"github.com/yyyoichi/lightrail/pcie"
	"github.com/yyyoichi/lightrail/tfln"
)

// Workload is the full parameter set of an evaluation.
type Workload struct {
	MatrixSize   int                   `json:"matrix_size" yaml:"matrix_size"`
	WDMChannels  int                   `json:"wdm_channels" yaml:"wdm_channels"`
	DataRate     float64               `json:"data_rate_gbps" yaml:"data_rate_gbps"`
	Reach        float64               `json:"reach_km" yaml:"reach_km"`
	Modulation   tfln.ModulationFormat `json:"modulation" yaml:"modulation"`
	FEC          bool                  `json:"fec" yaml:"fec"`
	PCIe         pcie.Generation       `json:"pcie_generation" yaml:"pcie_generation"`
	Lanes        int                   `json:"pcie_lanes" yaml:"pcie_lanes"`
	FPGA         hybrid.Family         `json:"fpga_family" yaml:"fpga_family"`
	ClusterNodes int                   `json:"cluster_nodes" yaml:"cluster_nodes"`
	Seed         int64                 `json:"seed" yaml:"seed"`
}

// DefaultWorkload is a 1024x1024 mesh over 64 wavelengths, a 400 Gbps PAM4
// link over 10 km, a Gen5 x16 board and 64 Versal nodes.
func DefaultWorkload() Workload {
	return Workload{
		MatrixSize:   1024,
		WDMChannels:  64,
		DataRate:     400,
		Reach:        10,
		Modulation:   tfln.PAM4,
		PCIe:         pcie.Gen5,
		Lanes:        16,
		FPGA:         hybrid.Versal,
		ClusterNodes: 64,
		Seed:         1,
	}
}

func (w Workload) Validate() error {
	if w.MatrixSize < 2 {
		return fmt.Errorf("%w: matrix size must be at least 2, got %d", ErrInvalidParameter, w.MatrixSize)
	}
	if w.WDMChannels < 1 {
		return fmt.Errorf("%w: wdm channel count must be positive, got %d", ErrInvalidParameter, w.WDMChannels)
	}
	if _, err := tfln.NewLink(w.DataRate, w.Reach, w.Modulation); err != nil {
		return fmt.Errorf("%w:%w", ErrInvalidParameter, err)
	}
	if _, err := pcie.NewConfig(w.PCIe, w.Lanes); err != nil {
		return fmt.Errorf("%w:%w", ErrInvalidParameter, err)
	}
	if !w.FPGA.Valid() {
		return fmt.Errorf("%w: fpga family %d", ErrInvalidParameter, int(w.FPGA))
	}
	if w.ClusterNodes < 1 {
		return fmt.Errorf("%w: cluster node count must be positive, got %d", ErrInvalidParameter, w.ClusterNodes)
	}
	return nil
}

// Report is the read-only result of one evaluation.
type Report struct {
	Workload Workload     `json:"workload" yaml:"workload"`
	Photonic Photonic     `json:"photonic" yaml:"photonic"`
	Link     tfln.Metrics `json:"link" yaml:"link"`
	Board    Board        `json:"board" yaml:"board"`
	Hybrid   Hybrid       `json:"hybrid" yaml:"hybrid"`
	Cluster  Cluster      `json:"cluster" yaml:"cluster"`
}

// Photonic holds the throughput model figures and the mean power of a
// seeded probe vector before and after the mesh and the FFT.
type Photonic struct {
	optical.Performance `yaml:",inline"`

	MZICount        int     `json:"mzi_count" yaml:"mzi_count"`
	FFTStages       int     `json:"fft_stages" yaml:"fft_stages"`
	ProbePower      float64 `json:"probe_power" yaml:"probe_power"`
	MeshOutputPower float64 `json:"mesh_output_power" yaml:"mesh_output_power"`
	FFTOutputPower  float64 `json:"fft_output_power" yaml:"fft_output_power"`
}

type Transfer struct {
	Bytes int     `json:"bytes" yaml:"bytes"`
	Time  float64 `json:"time_ms" yaml:"time_ms"`
	Rate  float64 `json:"rate_gbytes_per_sec" yaml:"rate_gbytes_per_sec"`
}

type Board struct {
	Info     pcie.BoardInfo     `json:"info" yaml:"info"`
	Transfer Transfer           `json:"matrix_transfer" yaml:"matrix_transfer"`
	Compute  pcie.ComputeResult `json:"matrix_multiply" yaml:"matrix_multiply"`
}

type Hybrid struct {
	Specs          hybrid.Specs  `json:"specs" yaml:"specs"`
	MatrixMultiply hybrid.Result `json:"matrix_multiply" yaml:"matrix_multiply"`
}

type Cluster struct {
	hybrid.ClusterPerformance `yaml:",inline"`

	Benchmark hybrid.Benchmark `json:"benchmark" yaml:"benchmark"`
}
