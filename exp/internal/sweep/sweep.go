// Package sweep evaluates the lightrail component models over parameter
// ranges for the characterization charts.
package sweep

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/yyyoichi/lightrail/hybrid"
	"github.com/yyyoichi/lightrail/tfln"
)

// Reference modulator geometry of the charts.
const (
	InteractionLength = 15.0 // mm
	ElectrodeGap      = 6.0  // μm
	CouplingGap       = 200.0
)

const (
	// silicon Vπ at 15 mm, scaled as 1/L
	siliconVpi = 6.2
	// the 12-layer board improves field confinement by about 15%
	optimizedVpiScale = 0.85
	// and saves about 2 dB of RF transition loss
	optimizedMarginGain = 2.0
	// bandwidth chart floor in GHz
	bandwidthFloor = 80.0
	// silicon 200G modulator, pJ/bit
	siliconEnergyPerBit = 26.0
)

// silicon power per lane in W at the rates of Rates.
var siliconPower = []float64{0.8, 2.1, 5.5, 14, 35}

// Rates are the data rates of the power chart in Gbps.
var Rates = []float64{100, 200, 400, 800, 1600}

type Point struct {
	X, Y float64
}

type Series struct {
	Name   string
	Points []Point
}

// Xs returns the x values of s.
func (s Series) Xs() []float64 {
	xs := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.X
	}
	return xs
}

// Ys returns the y values of s.
func (s Series) Ys() []float64 {
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		ys[i] = p.Y
	}
	return ys
}

// Bar is one labelled value of a bar chart.
type Bar struct {
	Name  string
	Value float64
}

func span(from, to float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 points, got %d", n)
	}
	if from >= to {
		return nil, fmt.Errorf("empty sweep range [%g, %g]", from, to)
	}
	return floats.Span(make([]float64, n), from, to), nil
}

// HalfWaveVoltage sweeps the X-cut modulator Vπ over interaction lengths in
// mm: standard, 12-layer optimized and the silicon reference.
func HalfWaveVoltage(from, to float64, n int) ([]Series, error) {
	lengths, err := span(from, to, n)
	if err != nil {
		return nil, err
	}
	std := Series{Name: "TFLN (Standard)"}
	opt := Series{Name: "TFLN (12-Layer Opt)"}
	si := Series{Name: "Silicon"}
	for _, l := range lengths {
		m, err := tfln.NewMachZehnder(l, ElectrodeGap, tfln.XCut)
		if err != nil {
			return nil, err
		}
		vpi := m.HalfWaveVoltage()
		std.Points = append(std.Points, Point{l, vpi})
		opt.Points = append(opt.Points, Point{l, vpi * optimizedVpiScale})
		si.Points = append(si.Points, Point{l, siliconVpi * InteractionLength / l})
	}
	return []Series{std, opt, si}, nil
}

// Power is the drive power per lane at Rates. TFLN uses PAM4 up to 400 Gbps
// and PAM8 above.
func Power() ([]Series, error) {
	m, err := tfln.NewMachZehnder(InteractionLength, ElectrodeGap, tfln.XCut)
	if err != nil {
		return nil, err
	}
	t := Series{Name: "TFLN"}
	si := Series{Name: "Silicon"}
	for i, rate := range Rates {
		f := tfln.PAM4
		if rate > 400 {
			f = tfln.PAM8
		}
		p, err := m.PowerConsumption(rate, f)
		if err != nil {
			return nil, err
		}
		t.Points = append(t.Points, Point{rate, p})
		si.Points = append(si.Points, Point{rate, siliconPower[i]})
	}
	return []Series{t, si}, nil
}

// Bandwidth sweeps the 3-dB bandwidth over electrode gaps in μm, floored at
// 80 GHz.
func Bandwidth(from, to float64, n int) (Series, error) {
	gaps, err := span(from, to, n)
	if err != nil {
		return Series{}, err
	}
	s := Series{Name: "3-dB Bandwidth"}
	for _, g := range gaps {
		m, err := tfln.NewMachZehnder(InteractionLength, g, tfln.XCut)
		if err != nil {
			return Series{}, err
		}
		s.Points = append(s.Points, Point{g, max(m.ModulationBandwidth(), bandwidthFloor)})
	}
	return s, nil
}

// LinkMargin sweeps the link margin over reach in km for a 400G PAM4 link and
// an 800G PAM8 link, standard and on the 12-layer board.
func LinkMargin(from, to float64, n int) ([]Series, error) {
	reaches, err := span(from, to, n)
	if err != nil {
		return nil, err
	}
	l400 := Series{Name: "400G PAM4"}
	l800 := Series{Name: "800G (Std)"}
	opt := Series{Name: "800G (12-Layer)"}
	for _, r := range reaches {
		a, err := tfln.NewLink(400, r, tfln.PAM4)
		if err != nil {
			return nil, err
		}
		b, err := tfln.NewLink(800, r, tfln.PAM8)
		if err != nil {
			return nil, err
		}
		m := b.Budget().Margin
		l400.Points = append(l400.Points, Point{r, a.Budget().Margin})
		l800.Points = append(l800.Points, Point{r, m})
		opt.Points = append(opt.Points, Point{r, m + optimizedMarginGain})
	}
	return []Series{l400, l800, opt}, nil
}

// Ring sweeps the ring resonator over radii in μm and returns the quality
// factor in thousands and the FSR in GHz.
func Ring(from, to float64, n int) (q, fsr Series, err error) {
	radii, err := span(from, to, n)
	if err != nil {
		return Series{}, Series{}, err
	}
	q.Name = "Quality Factor"
	fsr.Name = "Free Spectral Range"
	for _, r := range radii {
		ring, err := tfln.NewRingModulator(r, CouplingGap, tfln.XCut)
		if err != nil {
			return Series{}, Series{}, err
		}
		q.Points = append(q.Points, Point{r, ring.QualityFactor() / 1000})
		fsr.Points = append(fsr.Points, Point{r, ring.FreeSpectralRange()})
	}
	return q, fsr, nil
}

// EnergyPerBit compares the silicon reference with 400G PAM4 and 800G PAM8
// TFLN links, in pJ/bit.
func EnergyPerBit() ([]Bar, error) {
	bars := []Bar{{"Silicon 200G", siliconEnergyPerBit}}
	for _, l := range []struct {
		name string
		rate float64
		f    tfln.ModulationFormat
	}{
		{"TFLN 400G PAM4", 400, tfln.PAM4},
		{"TFLN 800G PAM8", 800, tfln.PAM8},
	} {
		link, err := tfln.NewLink(l.rate, 2, l.f)
		if err != nil {
			return nil, err
		}
		bars = append(bars, Bar{l.name, link.Metrics().EnergyPerBit})
	}
	return bars, nil
}

// Grid is a heat map: Values[i][j] belongs to Rows[i] and Cols[j].
type Grid struct {
	Rows, Cols []string
	Values     [][]float64
}

// MatrixMultiply evaluates the single node matrix multiply TFLOPS for every
// FPGA family and matrix size.
func MatrixMultiply(families []hybrid.Family, sizes []int) (Grid, error) {
	g := Grid{Values: make([][]float64, len(families))}
	for _, n := range sizes {
		g.Cols = append(g.Cols, fmt.Sprint(n))
	}
	for i, f := range families {
		s, err := hybrid.NewSystem(hybrid.WithFamily(f))
		if err != nil {
			return Grid{}, err
		}
		g.Rows = append(g.Rows, f.String())
		g.Values[i] = make([]float64, len(sizes))
		for j, n := range sizes {
			r, err := s.ExecuteMatrixMultiply(n)
			if err != nil {
				return Grid{}, err
			}
			g.Values[i][j] = r.TFLOPS
		}
	}
	return g, nil
}
