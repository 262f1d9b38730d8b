// Package lightrail evaluates a photonic accelerator end to end: the optical
// compute mesh, the TFLN link feeding it, the PCIe board hosting it, the
// hybrid FPGA node driving it and a cluster of such nodes.
//
// Every evaluation builds fresh component models from a Workload; nothing is
// shared between calls unless a Batch is used.
package lightrail

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/go-logr/logr"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"

	"github.com/yyyoichi/lightrail/hybrid"
	"github.com/yyyoichi/lightrail/internal/memo"
	"github.com/yyyoichi/lightrail/optical"
	"github.com/yyyoichi/lightrail/pcie"
	"github.com/yyyoichi/lightrail/tfln"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Evaluate is a convenience function that creates an Evaluator and calls its Evaluate method.
func Evaluate(ctx context.Context, opts ...Option) (*Report, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx)
}

type Evaluator struct {
	w Workload

	photonic *memo.Cache[photonicKey, Photonic]
	links    *memo.Cache[linkKey, tfln.Metrics]
}

// New initializes an evaluator for DefaultWorkload adjusted by opts.
func New(opts ...Option) (*Evaluator, error) {
	e := &Evaluator{w: DefaultWorkload()}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Evaluator) Workload() Workload {
	return e.w
}

// Evaluate runs the five stages concurrently and returns their combined report.
// The logger is taken from ctx.
//
// Stages:
//  1. photonic: mesh, WDM and FFT figures plus a probe vector through the mesh and FFT.
//  2. link: metrics of the TFLN link.
//  3. board: board bring-up, transfer of one float32 matrix and the optical multiply.
//  4. hybrid: one node multiplying the matrix.
//  5. cluster: aggregate figures and the matrix multiply spread over every node.
func (e *Evaluator) Evaluate(ctx context.Context) (*Report, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("matrixSize", e.w.MatrixSize)
	ctx = logr.NewContext(ctx, logger)
	r := &Report{Workload: e.w}

	stages := []struct {
		name string
		run  func(context.Context, *Report) error
	}{
		{"photonic", e.evalPhotonic},
		{"link", e.evalLink},
		{"board", e.evalBoard},
		{"hybrid", e.evalHybrid},
		{"cluster", e.evalCluster},
	}
	errs := make([]error, len(stages))
	var wg sync.WaitGroup
	wg.Add(len(stages))
	for i, s := range stages {
		go func(i int) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			if err := s.run(ctx, r); err != nil {
				errs[i] = fmt.Errorf("%s: %w", s.name, err)
				return
			}
			logger.V(1).Info("stage done", "stage", s.name)
		}(i)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	logger.V(1).Info("evaluation done",
		"totalTOPS", r.Photonic.TotalThroughputTOPS,
		"linkAdequate", r.Link.Budget.Adequate,
		"clusterPFLOPS", r.Cluster.PFLOPS)
	return r, nil
}

type photonicKey struct {
	size, channels int
	seed           int64
}

func (e *Evaluator) evalPhotonic(_ context.Context, r *Report) error {
	compute := func() (Photonic, error) {
		return photonic(e.w.MatrixSize, e.w.WDMChannels, e.w.Seed)
	}
	if e.photonic == nil {
		p, err := compute()
		r.Photonic = p
		return err
	}
	p, err := e.photonic.Get(photonicKey{e.w.MatrixSize, e.w.WDMChannels, e.w.Seed}, compute)
	r.Photonic = p
	return err
}

func photonic(size, channels int, seed int64) (Photonic, error) {
	perf, err := optical.CalculatePerformance(size, channels)
	if err != nil {
		return Photonic{}, err
	}
	mesh, err := optical.NewMatrixMultiplier(size, optical.WithSeed(seed))
	if err != nil {
		return Photonic{}, err
	}
	fft, err := optical.NewFFT(size)
	if err != nil {
		return Photonic{}, err
	}

	rd := rand.New(rand.NewSource(seed))
	probe := make([]complex128, size)
	for i := range probe {
		probe[i] = complex(rd.NormFloat64(), rd.NormFloat64())
	}
	meshOut, err := mesh.Multiply(probe)
	if err != nil {
		return Photonic{}, err
	}
	fftOut, err := fft.Compute(probe)
	if err != nil {
		return Photonic{}, err
	}
	return Photonic{
		Performance:     perf,
		MZICount:        mesh.NumMZI(),
		FFTStages:       fft.Stages(),
		ProbePower:      power(probe),
		MeshOutputPower: power(meshOut),
		FFTOutputPower:  power(fftOut),
	}, nil
}

// power is the mean |x|² of a signal.
func power(x []complex128) float64 {
	m := make([]float64, len(x))
	cmplxs.Abs(m, x)
	floats.Mul(m, m)
	return floats.Sum(m) / float64(len(m))
}

type linkKey struct {
	rate, reach float64
	format      tfln.ModulationFormat
	fec         bool
}

func (e *Evaluator) evalLink(_ context.Context, r *Report) error {
	compute := func() (tfln.Metrics, error) {
		var opts []tfln.Option
		if e.w.FEC {
			opts = append(opts, tfln.WithFEC())
		}
		l, err := tfln.NewLink(e.w.DataRate, e.w.Reach, e.w.Modulation, opts...)
		if err != nil {
			return tfln.Metrics{}, err
		}
		return l.Metrics(), nil
	}
	if e.links == nil {
		m, err := compute()
		r.Link = m
		return err
	}
	m, err := e.links.Get(linkKey{e.w.DataRate, e.w.Reach, e.w.Modulation, e.w.FEC}, compute)
	r.Link = m
	return err
}

func (e *Evaluator) evalBoard(ctx context.Context, r *Report) error {
	cfg, err := pcie.NewConfig(e.w.PCIe, e.w.Lanes)
	if err != nil {
		return err
	}
	b, err := pcie.NewBoard(cfg)
	if err != nil {
		return err
	}
	if err := b.Initialize(ctx); err != nil {
		return err
	}
	bytes := e.w.MatrixSize * e.w.MatrixSize * 4
	ms, err := b.TransferToDevice(bytes)
	if err != nil {
		return err
	}
	c, err := b.ExecuteMatrixMultiply(e.w.MatrixSize)
	if err != nil {
		return err
	}
	r.Board = Board{
		Info:     b.Info(),
		Transfer: Transfer{Bytes: bytes, Time: ms, Rate: float64(bytes) / 1e9 / (ms / 1000)},
		Compute:  c,
	}
	return nil
}

func (e *Evaluator) evalHybrid(_ context.Context, r *Report) error {
	s, err := hybrid.NewSystem(hybrid.WithFamily(e.w.FPGA))
	if err != nil {
		return err
	}
	res, err := s.ExecuteMatrixMultiply(e.w.MatrixSize)
	if err != nil {
		return err
	}
	r.Hybrid = Hybrid{Specs: s.Specs(), MatrixMultiply: res}
	return nil
}

func (e *Evaluator) evalCluster(_ context.Context, r *Report) error {
	c, err := hybrid.NewCluster(e.w.ClusterNodes, hybrid.WithFamily(e.w.FPGA))
	if err != nil {
		return err
	}
	bench, err := c.BenchmarkWorkload(hybrid.MatMul, e.w.MatrixSize*e.w.ClusterNodes)
	if err != nil {
		return err
	}
	r.Cluster = Cluster{ClusterPerformance: c.AggregatePerformance(), Benchmark: bench}
	return nil
}

// Batch evaluates many workloads while caching the photonic and link stages,
// which depend only on a few workload fields. A Batch is safe for concurrent use.
type Batch struct {
	photonic *memo.Cache[photonicKey, Photonic]
	links    *memo.Cache[linkKey, tfln.Metrics]
}

func NewBatch() *Batch {
	return &Batch{
		photonic: memo.New[photonicKey, Photonic](),
		links:    memo.New[linkKey, tfln.Metrics](),
	}
}

// Evaluate evaluates the workload described by opts, reusing cached stages.
func (b *Batch) Evaluate(ctx context.Context, opts ...Option) (*Report, error) {
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	e.photonic = b.photonic
	e.links = b.links
	return e.Evaluate(ctx)
}
