package lightrail

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/lightrail/hybrid"
	"github.com/yyyoichi/lightrail/pcie"
	"github.com/yyyoichi/lightrail/tfln"
)

func TestEvaluateDefault(t *testing.T) {
	ctx := logr.NewContext(context.Background(), testr.NewWithOptions(t, testr.Options{Verbosity: 1}))
	r, err := Evaluate(ctx)
	require.NoError(t, err)

	assert.Equal(t, DefaultWorkload(), r.Workload)

	assert.InDelta(t, 104857.6, r.Photonic.MatrixMultiplyTOPS, 1e-6)
	assert.InDelta(t, 6710886.4, r.Photonic.TotalThroughputTOPS, 1e-4)
	assert.Equal(t, 523776, r.Photonic.MZICount)
	assert.Equal(t, 10, r.Photonic.FFTStages)
	// both the mesh and the scaled DFT preserve signal power
	assert.InEpsilon(t, r.Photonic.ProbePower, r.Photonic.MeshOutputPower, 1e-9)
	assert.InEpsilon(t, r.Photonic.ProbePower, r.Photonic.FFTOutputPower, 1e-9)

	assert.InDelta(t, 14.995, r.Link.Budget.Margin, 1e-9)
	assert.True(t, r.Link.Budget.Adequate)
	assert.InDelta(t, 1.0084391414351435, r.Link.EnergyPerBit, 1e-9)

	assert.Equal(t, 1024*1024*4, r.Board.Transfer.Bytes)
	assert.InDelta(t, 0.06656, r.Board.Transfer.Time, 1e-9)
	assert.InDelta(t, 63.01538461538462, r.Board.Transfer.Rate, 1e-6)
	assert.InDelta(t, 214748.3648, r.Board.Compute.Throughput, 1e-6)

	assert.InEpsilon(t, 1.310757278251821, r.Hybrid.MatrixMultiply.TotalTime, 1e-9)
	assert.Equal(t, hybrid.UnitPhotonic, r.Hybrid.MatrixMultiply.Partition.Recommended)
	assert.Equal(t, "Xilinx Versal", r.Hybrid.Specs.FPGA.Family)

	assert.InDelta(t, 0.64, r.Cluster.PFLOPS, 1e-12)
	assert.Equal(t, 65536, r.Cluster.Benchmark.ProblemSize)
	assert.InEpsilon(t, 0.1048546178246705, r.Cluster.Benchmark.PFLOPS, 1e-9)
}

func TestEvaluateOptions(t *testing.T) {
	r, err := Evaluate(context.Background(),
		WithMatrixSize(256),
		WithWDMChannels(8),
		WithLink(100, 80, tfln.OOK),
		WithFEC(),
		WithPCIe(pcie.Gen4, 8),
		WithFPGAFamily(hybrid.UltraScalePlus),
		WithClusterNodes(4),
		WithSeed(7),
	)
	require.NoError(t, err)

	assert.Equal(t, 256, r.Photonic.MatrixSize)
	assert.InDelta(t, 0.8, r.Photonic.AggregateBandwidthTbps, 1e-12)
	assert.Equal(t, "On-Off Keying", r.Link.Modulation)
	assert.InDelta(t, 100.0*12/23, r.Link.PayloadRate, 1e-9)
	// 80 km of fiber eats the margin
	assert.False(t, r.Link.Budget.Adequate)
	assert.Equal(t, "16 GT/s", r.Board.Info.Generation)
	assert.Equal(t, 8, r.Board.Info.Lanes)
	assert.Equal(t, hybrid.UnitFPGA, r.Hybrid.MatrixMultiply.Partition.Recommended)
	assert.Equal(t, 11059.0, r.Hybrid.Specs.FPGA.ComputeGFLOPS)
	assert.Equal(t, 4, r.Cluster.Nodes)
	assert.Equal(t, 1024, r.Cluster.Benchmark.ProblemSize)
}

func TestNewInvalid(t *testing.T) {
	test := []struct {
		name string
		opt  Option
	}{
		{"matrix size", WithMatrixSize(1)},
		{"wdm channels", WithWDMChannels(0)},
		{"link rate", WithLink(0, 10, tfln.PAM4)},
		{"link reach", WithLink(100, -1, tfln.PAM4)},
		{"link format", WithLink(100, 10, tfln.ModulationFormat(9))},
		{"pcie generation", WithPCIe(pcie.Generation(9), 16)},
		{"pcie lanes", WithPCIe(pcie.Gen5, 0)},
		{"fpga family", WithFPGAFamily(hybrid.Family(9))},
		{"cluster nodes", WithClusterNodes(0)},
		{"workload", WithWorkload(Workload{})},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestEvaluateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Evaluate(ctx, WithMatrixSize(16))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluateDeterministic(t *testing.T) {
	a, err := Evaluate(context.Background(), WithMatrixSize(64), WithSeed(3))
	require.NoError(t, err)
	b, err := Evaluate(context.Background(), WithMatrixSize(64), WithSeed(3))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBatch(t *testing.T) {
	b := NewBatch()
	ctx := context.Background()

	first, err := b.Evaluate(ctx, WithMatrixSize(128))
	require.NoError(t, err)
	// a different cluster size reuses the photonic and link stages
	second, err := b.Evaluate(ctx, WithMatrixSize(128), WithClusterNodes(8))
	require.NoError(t, err)
	assert.Equal(t, first.Photonic, second.Photonic)
	assert.Equal(t, first.Link, second.Link)
	assert.Equal(t, 1, b.photonic.Len())
	assert.Equal(t, 1, b.links.Len())

	fresh, err := Evaluate(ctx, WithMatrixSize(128), WithClusterNodes(8))
	require.NoError(t, err)
	assert.Equal(t, fresh, second)

	_, err = b.Evaluate(ctx, WithMatrixSize(256), WithLink(200, 5, tfln.PAM8))
	require.NoError(t, err)
	assert.Equal(t, 2, b.photonic.Len())
	assert.Equal(t, 2, b.links.Len())
}

func TestReportJSON(t *testing.T) {
	r, err := Evaluate(context.Background(), WithMatrixSize(32), WithClusterNodes(2))
	require.NoError(t, err)
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	w := m["workload"].(map[string]any)
	assert.Equal(t, "PAM4", w["modulation"])
	assert.Equal(t, "Gen5", w["pcie_generation"])
	assert.Equal(t, "versal", w["fpga_family"])
	// embedded figures are flattened
	assert.Contains(t, m["photonic"], "matrix_multiply_tops")
	assert.Contains(t, m["cluster"], "total_pflops")

	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r.Workload, back.Workload)
}
