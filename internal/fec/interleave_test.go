package fec

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleaveRoundTrip(t *testing.T) {
	rd := rand.New(rand.NewSource(3))
	for _, n := range []int{0, 1, 23, 230, 1000} {
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = rd.Intn(2) == 1
		}
		il := Interleaver(42)
		got := il.Deinterleave(il.Interleave(bits))
		assert.Equal(t, bits, got, "n=%d", n)
	}

	// the permutation depends on the seed only
	assert.Equal(t, Interleaver(5).permutation(100), Interleaver(5).permutation(100))
	assert.NotEqual(t, Interleaver(5).permutation(100), Interleaver(6).permutation(100))
}

func TestInterleaveBurst(t *testing.T) {
	const burst = 4
	rd := rand.New(rand.NewSource(11))
	bits := make([]bool, 600)
	for i := range bits {
		bits[i] = rd.Intn(2) == 1
	}
	coded, err := Encode(bits)
	require.NoError(t, err)

	// recovered counts the burst positions after which the payload survives
	recovered := func(il *Interleaver) int {
		var ok int
		for start := 0; start+burst <= len(coded); start++ {
			line := append([]bool(nil), coded...)
			if il != nil {
				line = il.Interleave(coded)
			}
			for i := start; i < start+burst; i++ {
				line[i] = !line[i]
			}
			if il != nil {
				line = il.Deinterleave(line)
			}
			got, err := Decode(line, len(bits))
			require.NoError(t, err)
			if assert.ObjectsAreEqual(bits, got) {
				ok++
			}
		}
		return ok
	}

	positions := len(coded) - burst + 1
	il := Interleaver(9)
	// a 4 bit burst beats Golay(23,12) unless it straddles a codeword boundary
	assert.Less(t, recovered(nil), positions/2)
	assert.Greater(t, recovered(&il), positions*9/10)
}
