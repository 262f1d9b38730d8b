package lightrail

import (
	"fmt"

	"github.com/yyyoichi/lightrail/hybrid"
	"github.com/yyyoichi/lightrail/pcie"
	"github.com/yyyoichi/lightrail/tfln"
)

type Option func(*Evaluator) error

// WithMatrixSize sets the edge of the square matrix every stage works on.
func WithMatrixSize(n int) Option {
	return func(e *Evaluator) error {
		if n < 2 {
			return fmt.Errorf("%w: matrix size must be at least 2, got %d", ErrInvalidParameter, n)
		}
		e.w.MatrixSize = n
		return nil
	}
}

// WithWDMChannels sets the number of wavelengths the photonic mesh is replicated over.
func WithWDMChannels(n int) Option {
	return func(e *Evaluator) error {
		if n < 1 {
			return fmt.Errorf("%w: wdm channel count must be positive, got %d", ErrInvalidParameter, n)
		}
		e.w.WDMChannels = n
		return nil
	}
}

// WithLink sets the TFLN link: data rate in Gbps, reach in km and line format.
func WithLink(rate, reach float64, f tfln.ModulationFormat) Option {
	return func(e *Evaluator) error {
		if _, err := tfln.NewLink(rate, reach, f); err != nil {
			return fmt.Errorf("%w:%w", ErrInvalidParameter, err)
		}
		e.w.DataRate = rate
		e.w.Reach = reach
		e.w.Modulation = f
		return nil
	}
}

// WithFEC protects the link payload with a Golay(23,12) code.
func WithFEC() Option {
	return func(e *Evaluator) error {
		e.w.FEC = true
		return nil
	}
}

// WithPCIe sets the host link of the accelerator board.
func WithPCIe(gen pcie.Generation, lanes int) Option {
	return func(e *Evaluator) error {
		if _, err := pcie.NewConfig(gen, lanes); err != nil {
			return fmt.Errorf("%w:%w", ErrInvalidParameter, err)
		}
		e.w.PCIe = gen
		e.w.Lanes = lanes
		return nil
	}
}

// WithFPGAFamily sets the FPGA of every hybrid node.
func WithFPGAFamily(f hybrid.Family) Option {
	return func(e *Evaluator) error {
		if !f.Valid() {
			return fmt.Errorf("%w: fpga family %d", ErrInvalidParameter, int(f))
		}
		e.w.FPGA = f
		return nil
	}
}

// WithClusterNodes sets the number of hybrid nodes in the cluster.
func WithClusterNodes(n int) Option {
	return func(e *Evaluator) error {
		if n < 1 {
			return fmt.Errorf("%w: cluster node count must be positive, got %d", ErrInvalidParameter, n)
		}
		e.w.ClusterNodes = n
		return nil
	}
}

// WithSeed fixes the random mesh phases and probe vector, making the signal
// figures of a Report reproducible.
func WithSeed(seed int64) Option {
	return func(e *Evaluator) error {
		e.w.Seed = seed
		return nil
	}
}

// WithWorkload replaces every setting at once, e.g. with a Workload decoded from a config file.
func WithWorkload(w Workload) Option {
	return func(e *Evaluator) error {
		if err := w.Validate(); err != nil {
			return err
		}
		e.w = w
		return nil
	}
}
