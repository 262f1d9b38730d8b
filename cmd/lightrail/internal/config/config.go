// Package config resolves the command line configuration. Values come from
// flags, then LIGHTRAIL_ environment variables, then an optional YAML file,
// then the flag defaults.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yyyoichi/lightrail"
	"github.com/yyyoichi/lightrail/hybrid"
	"github.com/yyyoichi/lightrail/pcie"
	"github.com/yyyoichi/lightrail/tfln"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

const EnvPrefix = "LIGHTRAIL"

// Output formats.
const (
	FormatJSON       = "json"
	FormatYAML       = "yaml"
	FormatPrometheus = "prom"
)

// Config is one run of the command. Every matrix size is evaluated with the
// remaining workload fields.
type Config struct {
	MatrixSizes  []int   `mapstructure:"matrix-sizes" yaml:"matrix-sizes"`
	WDMChannels  int     `mapstructure:"wdm-channels" yaml:"wdm-channels"`
	DataRate     float64 `mapstructure:"data-rate" yaml:"data-rate"`
	Reach        float64 `mapstructure:"reach" yaml:"reach"`
	Modulation   string  `mapstructure:"modulation" yaml:"modulation"`
	FEC          bool    `mapstructure:"fec" yaml:"fec"`
	PCIe         string  `mapstructure:"pcie-gen" yaml:"pcie-gen"`
	Lanes        int     `mapstructure:"pcie-lanes" yaml:"pcie-lanes"`
	FPGA         string  `mapstructure:"fpga" yaml:"fpga"`
	ClusterNodes int     `mapstructure:"cluster-nodes" yaml:"cluster-nodes"`
	Seed         int64   `mapstructure:"seed" yaml:"seed"`

	Format      string `mapstructure:"format" yaml:"format"`
	Output      string `mapstructure:"output" yaml:"output"`             // empty for stdout
	MetricsFile string `mapstructure:"metrics-file" yaml:"metrics-file"` // prometheus textfile
	Verbosity   int    `mapstructure:"verbose" yaml:"verbose"`
}

// Flags returns the command flag set with defaults taken from
// lightrail.DefaultWorkload.
func Flags() *pflag.FlagSet {
	d := lightrail.DefaultWorkload()
	fpga, _ := d.FPGA.MarshalText()

	fs := pflag.NewFlagSet("lightrail", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "YAML config file")
	fs.IntSlice("matrix-sizes", []int{d.MatrixSize}, "optical matrix sizes to evaluate")
	fs.Int("wdm-channels", d.WDMChannels, "number of WDM wavelengths")
	fs.Float64("data-rate", d.DataRate, "TFLN link data rate in Gbps")
	fs.Float64("reach", d.Reach, "TFLN link reach in km")
	fs.String("modulation", d.Modulation.String(), "link modulation format (ook, pam4, pam8, qam16, qam64)")
	fs.Bool("fec", d.FEC, "protect the link with Golay(23,12)")
	fs.String("pcie-gen", d.PCIe.String(), "PCIe generation (Gen3..Gen6)")
	fs.Int("pcie-lanes", d.Lanes, "PCIe lane count")
	fs.String("fpga", string(fpga), "FPGA family (versal, ultrascale+, stratix10, agilex)")
	fs.Int("cluster-nodes", d.ClusterNodes, "hybrid cluster node count")
	fs.Int64("seed", d.Seed, "seed of the mesh phases and the probe vector")
	fs.StringP("format", "f", FormatJSON, "report format (json, yaml, prom)")
	fs.StringP("output", "o", "", "report file, stdout when empty")
	fs.String("metrics-file", "", "write report gauges to this prometheus textfile")
	fs.CountP("verbose", "v", "log verbosity, repeat for more")
	return fs
}

// Load parses args into fs and resolves the configuration.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w:%w", ErrInvalidConfig, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("%w:%w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the output settings and every workload.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatYAML, FormatPrometheus:
	default:
		return fmt.Errorf("%w: format must be json, yaml or prom, got %q", ErrInvalidConfig, c.Format)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("%w: verbosity must be >= 0, got %d", ErrInvalidConfig, c.Verbosity)
	}
	if len(c.MatrixSizes) == 0 {
		return fmt.Errorf("%w: no matrix size", ErrInvalidConfig)
	}
	sizes := slices.Clone(c.MatrixSizes)
	slices.Sort(sizes)
	if len(slices.Compact(sizes)) != len(c.MatrixSizes) {
		return fmt.Errorf("%w: duplicate matrix size in %v", ErrInvalidConfig, c.MatrixSizes)
	}
	_, err := c.Workloads()
	return err
}

// Workloads returns one validated workload per matrix size, in order.
func (c *Config) Workloads() ([]lightrail.Workload, error) {
	format, err := tfln.ParseModulationFormat(c.Modulation)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrInvalidConfig, err)
	}
	gen, err := pcie.ParseGeneration(c.PCIe)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrInvalidConfig, err)
	}
	family, err := hybrid.ParseFamily(c.FPGA)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrInvalidConfig, err)
	}

	ws := make([]lightrail.Workload, len(c.MatrixSizes))
	for i, n := range c.MatrixSizes {
		ws[i] = lightrail.Workload{
			MatrixSize:   n,
			WDMChannels:  c.WDMChannels,
			DataRate:     c.DataRate,
			Reach:        c.Reach,
			Modulation:   format,
			FEC:          c.FEC,
			PCIe:         gen,
			Lanes:        c.Lanes,
			FPGA:         family,
			ClusterNodes: c.ClusterNodes,
			Seed:         c.Seed,
		}
		if err := ws[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w:%w", ErrInvalidConfig, err)
		}
	}
	return ws, nil
}
