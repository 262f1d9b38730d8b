package bitconv

import "github.com/yyyoichi/bitstream-go"

// BytesToBools unpacks b MSB first.
func BytesToBools(b []byte) []bool {
	r := bitstream.NewBitReader(b, 0, 0)
	bits := make([]bool, r.Bits())
	for i := range bits {
		bits[i], _ = r.ReadBitAt(i)
	}
	return bits
}

// BoolsToBytes packs bits MSB first. The trailing byte is zero padded.
func BoolsToBytes(bits []bool) []byte {
	w := bitstream.NewBitWriter[uint8](0, 0)
	for _, b := range bits {
		w.WriteBool(b)
	}
	return w.Data()
}

// Symbols groups bits into width-bit symbols, first bit most significant.
// A trailing group shorter than width is dropped.
func Symbols(bits []bool, width int) []uint8 {
	if width < 1 || width > 8 {
		panic("bitconv: symbol width must be in 1..8")
	}
	r := bitstream.NewBitReader(BoolsToBytes(bits), 0, 0)
	r.SetBits(len(bits))
	out := make([]uint8, len(bits)/width)
	for i := range out {
		out[i] = r.Read8R(width, i)
	}
	return out
}

// FromSymbols is the inverse of Symbols.
func FromSymbols(symbols []uint8, width int) []bool {
	if width < 1 || width > 8 {
		panic("bitconv: symbol width must be in 1..8")
	}
	w := bitstream.NewBitWriter[uint8](0, 0)
	for _, s := range symbols {
		w.Write8(8-width, width, s)
	}
	return BytesToBools(w.Data())[:len(symbols)*width]
}
