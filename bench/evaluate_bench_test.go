package bench_test

import (
	"testing"

	"github.com/yyyoichi/lightrail"
	"github.com/yyyoichi/lightrail/tfln"
)

// BenchmarkEvaluate runs a table-driven set of end-to-end evaluations
func BenchmarkEvaluate(b *testing.B) {
	test := []struct {
		name string
		opts []lightrail.Option
	}{
		{name: "64_PAM4", opts: []lightrail.Option{
			lightrail.WithMatrixSize(64),
		}},
		{name: "256_PAM4", opts: []lightrail.Option{
			lightrail.WithMatrixSize(256),
		}},
		{name: "1024_PAM4", opts: []lightrail.Option{
			lightrail.WithMatrixSize(1024),
		}},
		{name: "1024_PAM8_FEC", opts: []lightrail.Option{
			lightrail.WithMatrixSize(1024),
			lightrail.WithLink(400, 10, tfln.PAM8),
			lightrail.WithFEC(),
		}},
		{name: "2048_PAM4", opts: []lightrail.Option{
			lightrail.WithMatrixSize(2048),
		}},
	}

	ctx := b.Context()
	for _, tt := range test {
		b.Run(tt.name, func(b *testing.B) {
			e, err := lightrail.New(tt.opts...)
			if err != nil {
				b.Fatalf("Failed to create Evaluator (%s): %v", tt.name, err)
			}
			for b.Loop() {
				r, err := e.Evaluate(ctx)
				if err != nil {
					b.Fatalf("Failed to evaluate (%s): %v", tt.name, err)
				}
				_ = r
			}
		})
	}
}

// BenchmarkBatch sweeps the cluster size; only the first pass computes the photonic stage
func BenchmarkBatch(b *testing.B) {
	ctx := b.Context()
	for b.Loop() {
		batch := lightrail.NewBatch()
		for _, nodes := range []int{1, 8, 64, 512} {
			if _, err := batch.Evaluate(ctx, lightrail.WithClusterNodes(nodes)); err != nil {
				b.Fatalf("Failed to evaluate %d nodes: %v", nodes, err)
			}
		}
	}
}
