package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/yyyoichi/lightrail"

	"lightrail/internal/config"
	"lightrail/internal/output"
)

func main() {
	fs := config.Flags()
	cfg, err := config.Load(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := newZapLogger(cfg.Verbosity)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	logger := zapr.NewLogger(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx = logr.NewContext(ctx, logger)
	err = run(ctx, cfg, os.Stdout)
	stop()
	if err != nil {
		logger.Error(err, "Evaluation failed")
	}
	_ = zl.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// newZapLogger returns a console logger on stderr. logr V(n) maps to zap
// level -n, so verbosity v enables V(0)..V(v).
func newZapLogger(verbosity int) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	zc.DisableStacktrace = true
	return zc.Build()
}

func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	logger := logr.FromContextOrDiscard(ctx)
	ws, err := cfg.Workloads()
	if err != nil {
		return err
	}
	reports, err := evaluate(ctx, ws)
	if err != nil {
		return err
	}

	w := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := output.Write(w, cfg.Format, reports); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if cfg.MetricsFile != "" {
		if err := output.WriteTextfile(cfg.MetricsFile, reports); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		logger.Info("Wrote metrics", "path", cfg.MetricsFile)
	}
	logger.Info("Evaluated workloads", "count", len(reports), "format", cfg.Format)
	return nil
}

// evaluate runs every workload through one Batch so workloads sharing a
// link or a mesh reuse it.
func evaluate(ctx context.Context, ws []lightrail.Workload) ([]*lightrail.Report, error) {
	b := lightrail.NewBatch()
	reports := make([]*lightrail.Report, len(ws))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, w := range ws {
		g.Go(func() error {
			r, err := b.Evaluate(ctx, lightrail.WithWorkload(w))
			if err != nil {
				return fmt.Errorf("matrix size %d: %w", w.MatrixSize, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
