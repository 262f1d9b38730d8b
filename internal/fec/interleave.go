package fec

import "math/rand"

// Interleaver spreads a coded stream with a permutation seeded by its value,
// so a burst of line errors lands in many codewords instead of one.
type Interleaver int64

func (s Interleaver) permutation(n int) []int {
	index := make([]int, n)
	for i := range index {
		index[i] = i
	}
	rd := rand.New(rand.NewSource(int64(s)))
	rd.Shuffle(n, func(i, j int) {
		index[i], index[j] = index[j], index[i]
	})
	return index
}

// Interleave returns bits in permuted order.
func (s Interleaver) Interleave(bits []bool) []bool {
	index := s.permutation(len(bits))
	out := make([]bool, len(bits))
	for i := range out {
		out[i] = bits[index[i]]
	}
	return out
}

// Deinterleave restores the order of a stream built by Interleave with the
// same seed and length.
func (s Interleaver) Deinterleave(bits []bool) []bool {
	index := s.permutation(len(bits))
	out := make([]bool, len(bits))
	for i, b := range bits {
		out[index[i]] = b
	}
	return out
}
