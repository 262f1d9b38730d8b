package pcie

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

const (
	boardTOPS      = 100.0 // estimated sustained TOPS per board
	fabricPerBoard = 10.0  // Tbps of optical interconnect per board
)

// ClusterPerformance aggregates the boards of a MultiboardCluster.
type ClusterPerformance struct {
	Boards       int     `json:"num_boards" yaml:"num_boards"`
	TOPS         float64 `json:"total_tops" yaml:"total_tops"`
	Power        float64 `json:"total_power_w" yaml:"total_power_w"`
	FabricTbps   float64 `json:"optical_fabric_tbps" yaml:"optical_fabric_tbps"`
	OpticalPorts int     `json:"total_optical_ports" yaml:"total_optical_ports"`
	Efficiency   float64 `json:"efficiency_tops_per_watt" yaml:"efficiency_tops_per_watt"`
}

// MultiboardCluster is a set of boards joined by an optical fabric.
type MultiboardCluster struct {
	boards []*Board
}

// NewMultiboardCluster builds n boards sharing cfg.
func NewMultiboardCluster(n int, cfg Config) (*MultiboardCluster, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: board count must be positive, got %d", ErrInvalidParameter, n)
	}
	c := &MultiboardCluster{boards: make([]*Board, n)}
	for i := range c.boards {
		b, err := NewBoard(cfg)
		if err != nil {
			return nil, err
		}
		c.boards[i] = b
	}
	return c, nil
}

func (c *MultiboardCluster) Boards() []*Board {
	return c.boards
}

// FabricBandwidth in Tbps.
func (c *MultiboardCluster) FabricBandwidth() float64 {
	return fabricPerBoard * float64(len(c.boards))
}

// Initialize brings up every board in order and stops at the first failure.
func (c *MultiboardCluster) Initialize(ctx context.Context) error {
	logger := logr.FromContextOrDiscard(ctx)
	for i, b := range c.boards {
		if err := b.Initialize(logr.NewContext(ctx, logger.WithValues("board", i))); err != nil {
			return fmt.Errorf("board %d: %w", i, err)
		}
	}
	logger.V(1).Info("cluster initialized", "boards", len(c.boards), "fabricTbps", c.FabricBandwidth())
	return nil
}

func (c *MultiboardCluster) AggregatePerformance() ClusterPerformance {
	p := ClusterPerformance{
		Boards:     len(c.boards),
		TOPS:       boardTOPS * float64(len(c.boards)),
		FabricTbps: c.FabricBandwidth(),
	}
	for _, b := range c.boards {
		p.Power += b.Power
		p.OpticalPorts += b.OpticalPorts
	}
	p.Efficiency = p.TOPS / p.Power
	return p
}
