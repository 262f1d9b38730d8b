// Package output renders evaluation reports as JSON, YAML or prometheus
// gauges.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"

	"github.com/yyyoichi/lightrail"

	"lightrail/internal/config"
)

var (
	ErrUnknownFormat = errors.New("unknown format")
)

// Write renders reports in format. A single report is written as an object,
// several as a list.
func Write(w io.Writer, format string, reports []*lightrail.Report) error {
	var v any = reports
	if len(reports) == 1 {
		v = reports[0]
	}
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case config.FormatPrometheus:
		reg, err := NewRegistry(reports)
		if err != nil {
			return err
		}
		mfs, err := reg.Gather()
		if err != nil {
			return err
		}
		for _, mf := range mfs {
			if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

type gauge struct {
	name, help string
	value      func(*lightrail.Report) float64
}

var gauges = []gauge{
	{"photonic_matrix_multiply_tops", "Optical mesh throughput on one wavelength.",
		func(r *lightrail.Report) float64 { return r.Photonic.MatrixMultiplyTOPS }},
	{"photonic_total_tops", "Optical mesh throughput over every WDM channel.",
		func(r *lightrail.Report) float64 { return r.Photonic.TotalThroughputTOPS }},
	{"photonic_fft_latency_ns", "Optical FFT latency.",
		func(r *lightrail.Report) float64 { return r.Photonic.FFTLatencyNs }},
	{"link_margin_db", "TFLN link budget margin.",
		func(r *lightrail.Report) float64 { return r.Link.Budget.Margin }},
	{"link_adequate", "1 when the link margin exceeds 3 dB.",
		func(r *lightrail.Report) float64 { return boolGauge(r.Link.Budget.Adequate) }},
	{"link_energy_per_bit_pj", "TFLN modulator energy per bit.",
		func(r *lightrail.Report) float64 { return r.Link.EnergyPerBit }},
	{"pcie_bandwidth_gbps", "PCIe payload bandwidth.",
		func(r *lightrail.Report) float64 { return r.Board.Info.BandwidthGbps }},
	{"pcie_matrix_transfer_ms", "Time to move one float32 matrix to the board.",
		func(r *lightrail.Report) float64 { return r.Board.Transfer.Time }},
	{"hybrid_matrix_multiply_ms", "Single node matrix multiply time.",
		func(r *lightrail.Report) float64 { return r.Hybrid.MatrixMultiply.TotalTime }},
	{"hybrid_matrix_multiply_tflops", "Single node matrix multiply throughput.",
		func(r *lightrail.Report) float64 { return r.Hybrid.MatrixMultiply.TFLOPS }},
	{"cluster_pflops", "Nominal cluster throughput.",
		func(r *lightrail.Report) float64 { return r.Cluster.PFLOPS }},
	{"cluster_power_kw", "Cluster power draw.",
		func(r *lightrail.Report) float64 { return r.Cluster.PowerKW }},
	{"cluster_benchmark_pflops", "Matrix multiply throughput spread over the cluster.",
		func(r *lightrail.Report) float64 { return r.Cluster.Benchmark.PFLOPS }},
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// NewRegistry registers one lightrail_* gauge vector per figure, labelled by
// matrix size.
func NewRegistry(reports []*lightrail.Report) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	for _, g := range gauges {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lightrail",
			Name:      g.name,
			Help:      g.help,
		}, []string{"matrix_size"})
		if err := reg.Register(vec); err != nil {
			return nil, err
		}
		for _, r := range reports {
			vec.WithLabelValues(strconv.Itoa(r.Workload.MatrixSize)).Set(g.value(r))
		}
	}
	return reg, nil
}

// WriteTextfile writes the gauges of reports to path for the node exporter
// textfile collector.
func WriteTextfile(path string, reports []*lightrail.Report) error {
	reg, err := NewRegistry(reports)
	if err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, reg)
}
