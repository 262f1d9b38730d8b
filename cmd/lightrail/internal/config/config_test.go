package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yyyoichi/lightrail"
	"github.com/yyyoichi/lightrail/hybrid"
	"github.com/yyyoichi/lightrail/pcie"
	"github.com/yyyoichi/lightrail/tfln"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(Flags(), nil)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, c.Format)
	assert.Equal(t, 0, c.Verbosity)

	ws, err := c.Workloads()
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, lightrail.DefaultWorkload(), ws[0])
}

func TestLoadFlags(t *testing.T) {
	c, err := Load(Flags(), []string{
		"--matrix-sizes", "64,256",
		"--modulation", "pam8",
		"--fec",
		"--pcie-gen", "4",
		"--pcie-lanes", "8",
		"--fpga", "Intel Agilex",
		"-f", "yaml",
		"-vv",
	})
	require.NoError(t, err)
	assert.Equal(t, []int{64, 256}, c.MatrixSizes)
	assert.Equal(t, FormatYAML, c.Format)
	assert.Equal(t, 2, c.Verbosity)

	ws, err := c.Workloads()
	require.NoError(t, err)
	require.Len(t, ws, 2)
	for i, n := range []int{64, 256} {
		assert.Equal(t, n, ws[i].MatrixSize)
		assert.Equal(t, tfln.PAM8, ws[i].Modulation)
		assert.True(t, ws[i].FEC)
		assert.Equal(t, pcie.Gen4, ws[i].PCIe)
		assert.Equal(t, 8, ws[i].Lanes)
		assert.Equal(t, hybrid.Agilex, ws[i].FPGA)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lightrail.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
matrix-sizes: [128, 512]
reach: 40
pcie-lanes: 4
cluster-nodes: 16
format: yaml
`), 0o644))

	t.Setenv("LIGHTRAIL_PCIE_LANES", "8")
	t.Setenv("LIGHTRAIL_CLUSTER_NODES", "32")

	c, err := Load(Flags(), []string{"--config", path, "--cluster-nodes", "2"})
	require.NoError(t, err)
	assert.Equal(t, []int{128, 512}, c.MatrixSizes) // file
	assert.Equal(t, 40.0, c.Reach)                  // file
	assert.Equal(t, 8, c.Lanes)                     // env over file
	assert.Equal(t, 2, c.ClusterNodes)              // flag over env
	assert.Equal(t, FormatYAML, c.Format)
	assert.Equal(t, 64, c.WDMChannels) // default
}

func TestLoadEnvSlice(t *testing.T) {
	t.Setenv("LIGHTRAIL_MATRIX_SIZES", "16,32")
	c, err := Load(Flags(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{16, 32}, c.MatrixSizes)
}

func TestLoadInvalid(t *testing.T) {
	test := []struct {
		name string
		args []string
	}{
		{"format", []string{"--format", "xml"}},
		{"duplicate sizes", []string{"--matrix-sizes", "64,64"}},
		{"matrix size", []string{"--matrix-sizes", "1"}},
		{"modulation", []string{"--modulation", "pam16"}},
		{"pcie generation", []string{"--pcie-gen", "Gen7"}},
		{"pcie lanes", []string{"--pcie-lanes", "0"}},
		{"fpga", []string{"--fpga", "spartan"}},
		{"data rate", []string{"--data-rate", "0"}},
		{"cluster nodes", []string{"--cluster-nodes", "0"}},
		{"missing file", []string{"--config", "/nonexistent/lightrail.yaml"}},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(Flags(), tt.args)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Load(Flags(), []string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestValidateWrapsWorkloadError(t *testing.T) {
	c, err := Load(Flags(), nil)
	require.NoError(t, err)
	c.WDMChannels = 0
	err = c.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, lightrail.ErrInvalidParameter)
}
