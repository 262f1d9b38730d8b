package optical

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// propagation time through the mesh
const meshLatency = 0.01e-9 // s

type MatrixOption func(*MatrixMultiplier) error

// WithSeed draws the initial phases from a seeded source.
func WithSeed(seed int64) MatrixOption {
	return func(m *MatrixMultiplier) error {
		m.rd = rand.New(rand.NewSource(seed))
		return nil
	}
}

// WithPhases sets every MZI explicitly. Both slices must hold size*(size-1)/2 values.
func WithPhases(theta, phi []float64) MatrixOption {
	return func(m *MatrixMultiplier) error {
		if len(theta) != m.NumMZI() || len(phi) != m.NumMZI() {
			return fmt.Errorf("%w: want %d phases, got theta=%d phi=%d",
				ErrInvalidParameter, m.NumMZI(), len(theta), len(phi))
		}
		m.theta = append([]float64(nil), theta...)
		m.phi = append([]float64(nil), phi...)
		return nil
	}
}

// MatrixMultiplier is a triangular mesh of size*(size-1)/2 MZIs, one per
// element above the diagonal in row-major order.
//
// EncodeMatrix mutates the mesh; do not call it concurrently with Multiply.
type MatrixMultiplier struct {
	size       int
	theta, phi []float64
	rd         *rand.Rand
}

// NewMatrixMultiplier builds a size x size mesh with phases uniform in [0, 2π).
func NewMatrixMultiplier(size int, opts ...MatrixOption) (*MatrixMultiplier, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: matrix size must be positive, got %d", ErrInvalidParameter, size)
	}
	m := &MatrixMultiplier{size: size}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.theta == nil {
		uniform := rand.Float64
		if m.rd != nil {
			uniform = m.rd.Float64
		}
		m.theta = make([]float64, m.NumMZI())
		m.phi = make([]float64, m.NumMZI())
		for i := range m.theta {
			m.theta[i] = uniform() * 2 * math.Pi
			m.phi[i] = uniform() * 2 * math.Pi
		}
	}
	return m, nil
}

func (m *MatrixMultiplier) Size() int {
	return m.size
}

func (m *MatrixMultiplier) NumMZI() int {
	return m.size * (m.size - 1) / 2
}

// Phases returns copies of the current settings.
func (m *MatrixMultiplier) Phases() (theta, phi []float64) {
	return append([]float64(nil), m.theta...), append([]float64(nil), m.phi...)
}

// EncodeMatrix loads u into the mesh: θ takes the argument and φ the modulus
// of each element above the diagonal.
func (m *MatrixMultiplier) EncodeMatrix(u mat.CMatrix) error {
	r, c := u.Dims()
	if r != m.size || c != m.size {
		return fmt.Errorf("%w: want %dx%d matrix, got %dx%d", ErrInvalidParameter, m.size, m.size, r, c)
	}
	k := 0
	for i := 0; i < m.size; i++ {
		for j := i + 1; j < m.size; j++ {
			v := u.At(i, j)
			m.theta[k] = cmplx.Phase(v)
			m.phi[k] = cmplx.Abs(v)
			k++
		}
	}
	return nil
}

// Multiply propagates v through the mesh. Each MZI mixes the pair (i, j) with
// c = cos θ and s = sin θ·e^{iφ}. The mesh is a simplified Clements layout, so
// after EncodeMatrix(u) the output is not u·v in general.
func (m *MatrixMultiplier) Multiply(v []complex128) ([]complex128, error) {
	if len(v) != m.size {
		return nil, fmt.Errorf("%w: want vector of %d, got %d", ErrInvalidParameter, m.size, len(v))
	}
	state := append([]complex128(nil), v...)
	k := 0
	for i := 0; i < m.size; i++ {
		for j := i + 1; j < m.size; j++ {
			c := complex(math.Cos(m.theta[k]), 0)
			s := complex(math.Sin(m.theta[k]), 0) * cmplx.Exp(complex(0, m.phi[k]))
			si, sj := state[i], state[j]
			state[i] = c*si - s*sj
			state[j] = cmplx.Conj(s)*si + c*sj
			k++
		}
	}
	return state, nil
}

// Throughput in TOPS, size² operations per mesh transit.
func (m *MatrixMultiplier) Throughput() float64 {
	return matrixThroughput(m.size)
}

func matrixThroughput(size int) float64 {
	return float64(size*size) / meshLatency / 1e12
}
