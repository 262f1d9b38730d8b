package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"exp/internal/sweep"

	"github.com/yyyoichi/lightrail/hybrid"
)

// This tool renders the TFLN characterization charts and a hybrid node heat
// map as HTML pages, plus an index page holding all of them.

type renderer interface {
	Render(w io.Writer) error
}

func main() {
	outDir := flag.String("out", "/tmp/lightrail_charts", "output directory")
	points := flag.Int("n", 50, "points per swept curve")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	builders := []struct {
		name  string
		build func(n int) (renderer, error)
	}{
		{"v_pi_vs_length", vpiChart},
		{"power_vs_rate", powerChart},
		{"bandwidth_vs_gap", bandwidthChart},
		{"link_budget", linkChart},
		{"ring_characteristics", ringChart},
		{"energy_efficiency", energyChart},
		{"hybrid_tflops", hybridChart},
	}

	page := components.NewPage()
	page.PageTitle = "TFLN System Characterization"
	for _, b := range builders {
		c, err := b.build(*points)
		if err != nil {
			log.Fatalf("Failed to build %s: %v", b.name, err)
		}
		path := filepath.Join(*outDir, b.name+".html")
		if err := render(c, path); err != nil {
			log.Fatalf("Failed to render %s: %v", b.name, err)
		}
		log.Printf("Generated: %s\n", path)
		if ch, ok := c.(components.Charter); ok {
			page.AddCharts(ch)
		}
	}

	index := filepath.Join(*outDir, "index.html")
	if err := render(page, index); err != nil {
		log.Fatalf("Failed to render index: %v", err)
	}
	log.Printf("\nAll charts saved to: %s\n", *outDir)
}

func render(r renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Render(f)
}

func labels(xs []float64, format string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = fmt.Sprintf(format, x)
	}
	return out
}

func lineData(ys []float64) []opts.LineData {
	out := make([]opts.LineData, len(ys))
	for i, y := range ys {
		out[i] = opts.LineData{Value: y}
	}
	return out
}

func newLine(title, xName, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "5%"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	return line
}

func addSeries(line *charts.Line, ss []sweep.Series) {
	for _, s := range ss {
		line.AddSeries(s.Name, lineData(s.Ys()))
	}
}

// constant is a horizontal reference line over n points.
func constant(name string, y float64, n int) sweep.Series {
	s := sweep.Series{Name: name, Points: make([]sweep.Point, n)}
	for i := range s.Points {
		s.Points[i].Y = y
	}
	return s
}

func vpiChart(n int) (renderer, error) {
	ss, err := sweep.HalfWaveVoltage(5, 25, n)
	if err != nil {
		return nil, err
	}
	line := newLine("TFLN Modulator: Vπ vs Interaction Length", "Interaction Length (mm)", "Half-Wave Voltage Vπ (V)")
	line.SetXAxis(labels(ss[0].Xs(), "%.1f"))
	addSeries(line, append(ss, constant("Target Vπ", 2.0, n)))
	return line, nil
}

func powerChart(int) (renderer, error) {
	ss, err := sweep.Power()
	if err != nil {
		return nil, err
	}
	line := newLine("Power Consumption Scaling", "Data Rate (Gbps)", "Power per Lane (W)")
	line.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Name: "Power per Lane (W)", Type: "log"}))
	line.SetXAxis(labels(sweep.Rates, "%.0f"))
	addSeries(line, ss)
	return line, nil
}

func bandwidthChart(n int) (renderer, error) {
	s, err := sweep.Bandwidth(3, 10, n)
	if err != nil {
		return nil, err
	}
	line := newLine("TFLN Modulation Bandwidth vs Electrode Design", "Electrode Gap (μm)", "3-dB Bandwidth (GHz)")
	line.SetXAxis(labels(s.Xs(), "%.2f"))
	addSeries(line, []sweep.Series{s, constant("100 GHz Target", 100, n)})
	return line, nil
}

func linkChart(n int) (renderer, error) {
	ss, err := sweep.LinkMargin(0.1, 10, n)
	if err != nil {
		return nil, err
	}
	line := newLine("TFLN Link Budget vs Reach", "Fiber Reach (km)", "Link Margin (dB)")
	line.SetGlobalOptions(charts.WithYAxisOpts(opts.YAxis{Name: "Link Margin (dB)", Type: "value", Min: -5, Max: 25}))
	line.SetXAxis(labels(ss[0].Xs(), "%.1f"))
	addSeries(line, append(ss, constant("Minimum Margin (3 dB)", 3, n)))
	return line, nil
}

func ringChart(n int) (renderer, error) {
	q, fsr, err := sweep.Ring(20, 100, n)
	if err != nil {
		return nil, err
	}
	line := newLine("TFLN Ring Resonator Characteristics", "Ring Radius (μm)", "Quality Factor (×10³)")
	line.SetXAxis(labels(q.Xs(), "%.1f"))
	line.AddSeries(q.Name, lineData(q.Ys()))
	line.ExtendYAxis(opts.YAxis{Name: "FSR (GHz)", Type: "value"})
	line.AddSeries(fsr.Name, lineData(fsr.Ys()),
		charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}),
	)
	return line, nil
}

func energyChart(int) (renderer, error) {
	bars, err := sweep.EnergyPerBit()
	if err != nil {
		return nil, err
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Energy Efficiency: TFLN vs Silicon"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Energy per Bit (pJ)", Type: "value", Max: 30}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	names := make([]string, len(bars))
	data := make([]opts.BarData, len(bars))
	for i, b := range bars {
		names[i] = b.Name
		data[i] = opts.BarData{
			Value: b.Value,
			Name:  fmt.Sprintf("%.2f pJ/bit, %.0fx better than silicon", b.Value, bars[0].Value/b.Value),
		}
	}
	bar.SetXAxis(names).AddSeries("Energy per Bit", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar, nil
}

func hybridChart(int) (renderer, error) {
	families := []hybrid.Family{hybrid.Versal, hybrid.UltraScalePlus, hybrid.Stratix10, hybrid.Agilex}
	sizes := []int{128, 256, 511, 512, 1024, 2048, 4096}
	g, err := sweep.MatrixMultiply(families, sizes)
	if err != nil {
		return nil, err
	}

	var data []opts.HeatMapData
	var top float64
	for i, row := range g.Values {
		for j, v := range row {
			data = append(data, opts.HeatMapData{Value: [3]any{j, i, v}})
		}
		top = max(top, slices.Max(row))
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Hybrid Node Matrix Multiply",
			Subtitle: "TFLOPS per FPGA family and matrix size",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Matrix Size", Type: "category", Data: g.Cols}),
		charts.WithYAxisOpts(opts.YAxis{Name: "FPGA", Type: "category", Data: g.Rows}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(top),
			InRange:    &opts.VisualMapInRange{Color: []string{"#313695", "#74add1", "#fee090", "#f46d43", "#a50026"}},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	heatmap.AddSeries("TFLOPS", data)
	return heatmap, nil
}
