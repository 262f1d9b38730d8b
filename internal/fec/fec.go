// Package fec wraps the binary Golay(23,12) code for bit streams carried on an optical lane.
package fec

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/golay"
	"github.com/yyyoichi/lightrail/internal/bitconv"
)

var (
	ErrShortCodeword = errors.New("codeword stream too short")
)

const (
	dataBits     = 12
	codewordBits = 23
)

// Rate is the ratio of payload bits to line bits.
func Rate() float64 {
	return float64(dataBits) / float64(codewordBits)
}

// EncodedLen returns the line length for n payload bits.
func EncodedLen(n int) int {
	return golay.EncodedBits(n)
}

// Encode appends parity to every 12-bit block of bits. The last block is zero padded.
func Encode(bits []bool) ([]bool, error) {
	if len(bits) == 0 {
		return []bool{}, nil
	}
	var encoded []uint8
	enc := golay.NewEncoder(&encoded)
	if err := enc.Encode(bitconv.BoolsToBytes(bits), len(bits)); err != nil {
		return nil, err
	}
	return bitconv.BytesToBools(encoded)[:enc.Bits()], nil
}

// Decode corrects up to three bit errors per codeword and returns the first n payload bits.
func Decode(coded []bool, n int) ([]bool, error) {
	if n == 0 {
		return []bool{}, nil
	}
	if max := golay.DecodedBits(len(coded)); n > max || n < 0 {
		return nil, fmt.Errorf("%w: %d line bits carry %d payload bits, want %d", ErrShortCodeword, len(coded), max, n)
	}
	var decoded []uint8
	dec := golay.NewDecoder(bitconv.BoolsToBytes(coded), len(coded))
	if err := dec.Decode(&decoded); err != nil {
		return nil, err
	}
	return bitconv.BytesToBools(decoded)[:n], nil
}
