// Package codec implements the self-describing compressed unit used for every
// data block and for the index.
//
// A unit is laid out as:
//
//	[1 byte preset][1 byte dict-size class][u16 LE properties length]
//	[properties][raw LZMA1 stream terminated by its end-of-stream marker]
//
// The properties are the five LZMA1 decoder property bytes (lc/lp/pb code
// followed by the little-endian dictionary size), so any unit can be decoded
// on its own without outside state.
package codec

import (
	"github.com/ulikunitz/xz/lzma"
)

const (
	// Preset is the compression preset recorded in every unit header.
	Preset byte = 9

	// DictClass is the dictionary-size class recorded in every unit header.
	// The encoder never uses a dictionary larger than 1<<(19+DictClass).
	DictClass byte = 4

	// PropsLen is the length of the LZMA1 properties carried by a unit.
	PropsLen = 5

	// HeaderLen is the full unit header length including properties.
	HeaderLen = 4 + PropsLen

	// chunkSize is the input chunk fed to the compressor per call.
	chunkSize = 64 * 1024

	// outBufferSize is the output buffer flushed to the destination when full.
	outBufferSize = 64 * 1024

	// maxPrealloc caps how much scratch space a limit alone may reserve.
	maxPrealloc = 64 << 20
)

// maxDictCap is the largest dictionary the encoder allocates.
const maxDictCap = 1 << (19 + int(DictClass))

// properties are the literal/position parameters for every encoded unit.
var properties = lzma.Properties{LC: 3, LP: 0, PB: 2}

// dictCapFor sizes the dictionary to the input; a window larger than the
// data it covers only costs memory.
func dictCapFor(n int) int {
	switch {
	case n < lzma.MinDictCap:
		return lzma.MinDictCap
	case n > maxDictCap:
		return maxDictCap
	default:
		return n
	}
}
