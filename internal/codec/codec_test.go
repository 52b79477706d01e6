package codec

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/jpak/internal/archtype"
)

func encode(t *testing.T, src []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := NewEncoder().Encode(&buf, src)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	random := make([]byte, 200*1024)
	rng.Read(random)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"tiny", []byte("foo")},
		{"repetitive", bytes.Repeat([]byte("hello world "), 20000)},
		{"incompressible", random},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			unit := encode(t, tt.data)
			out, err := NewDecoder().Decode(bytes.NewReader(unit), 0, int64(len(unit)))
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), len(out))
			assert.True(t, bytes.Equal(tt.data, out))
		})
	}
}

func TestUnitHeader(t *testing.T) {
	t.Parallel()

	unit := encode(t, []byte("header check"))
	require.Greater(t, len(unit), HeaderLen)
	assert.Equal(t, Preset, unit[0])
	assert.Equal(t, DictClass, unit[1])
	assert.Equal(t, uint16(PropsLen), binary.LittleEndian.Uint16(unit[2:4]))
	// lc=3 lp=0 pb=2 encodes as (2*5+0)*9+3.
	assert.Equal(t, byte(93), unit[4])
	assert.Equal(t, uint32(4096), binary.LittleEndian.Uint32(unit[5:9]))
}

func TestCompressesRepetitiveInput(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("abcdefgh"), 64*1024)
	unit := encode(t, data)
	assert.Less(t, len(unit), len(data)/10)
}

// boundedReaderAt fails the test if a read touches bytes outside [lo, hi).
type boundedReaderAt struct {
	t      *testing.T
	data   []byte
	lo, hi int64
}

func (b boundedReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < b.lo || off+int64(len(p)) > b.hi {
		// SectionReader clamps reads to its limit, so this only fires on a
		// genuine out-of-range access.
		b.t.Errorf("read [%d,%d) outside [%d,%d)", off, off+int64(len(p)), b.lo, b.hi)
	}
	return bytes.NewReader(b.data).ReadAt(p, off)
}

func TestDecodeStaysInRange(t *testing.T) {
	t.Parallel()

	first := encode(t, []byte("first block payload"))
	second := encode(t, []byte("second block payload"))
	archive := append(append([]byte("JPAK"), first...), second...)
	archive = append(archive, bytes.Repeat([]byte{0xAA}, 64)...)

	off := int64(4 + len(first))
	src := boundedReaderAt{t: t, data: archive, lo: off, hi: off + int64(len(second))}
	dec := NewDecoder()
	out, err := dec.Decode(src, off, int64(len(second)))
	require.NoError(t, err)
	assert.Equal(t, "second block payload", string(out))

	out, err = dec.Decode(bytes.NewReader(archive), 4, int64(len(first)))
	require.NoError(t, err)
	assert.Equal(t, "first block payload", string(out))
}

func TestDecodeCorrupt(t *testing.T) {
	t.Parallel()

	unit := encode(t, bytes.Repeat([]byte("some payload "), 1000))

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"empty", func([]byte) []byte { return nil }},
		{"short header", func(u []byte) []byte { return u[:3] }},
		{"short properties", func(u []byte) []byte { return u[:6] }},
		{"truncated stream", func(u []byte) []byte { return u[:len(u)/2] }},
		{"bad preset", func(u []byte) []byte { u[0] = 42; return u }},
		{"bad properties length", func(u []byte) []byte {
			binary.LittleEndian.PutUint16(u[2:4], 6)
			return u
		}},
		{"bad properties code", func(u []byte) []byte { u[4] = 0xFF; return u }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			data := tt.mutate(bytes.Clone(unit))
			_, err := NewDecoder().Decode(bytes.NewReader(data), 0, int64(len(data)))
			assert.ErrorIs(t, err, archtype.ErrCorruptBlock)
		})
	}
}

func TestDecodeLimit(t *testing.T) {
	t.Parallel()

	unit := encode(t, bytes.Repeat([]byte{'x'}, 10000))

	_, err := NewDecoder(WithLimit(9999)).Decode(bytes.NewReader(unit), 0, int64(len(unit)))
	assert.ErrorIs(t, err, archtype.ErrCorruptBlock)

	out, err := NewDecoder(WithLimit(10000)).Decode(bytes.NewReader(unit), 0, int64(len(unit)))
	require.NoError(t, err)
	assert.Len(t, out, 10000)
}

func TestEncoderReuse(t *testing.T) {
	t.Parallel()

	enc := NewEncoder()
	var a, b bytes.Buffer
	_, err := enc.Encode(&a, []byte("one"))
	require.NoError(t, err)
	_, err = enc.Encode(&b, []byte("two"))
	require.NoError(t, err)

	dec := NewDecoder()
	out, err := dec.Decode(bytes.NewReader(a.Bytes()), 0, int64(a.Len()))
	require.NoError(t, err)
	assert.Equal(t, "one", string(out))
	out, err = dec.Decode(bytes.NewReader(b.Bytes()), 0, int64(b.Len()))
	require.NoError(t, err)
	assert.Equal(t, "two", string(out))
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestEncodeWriteError(t *testing.T) {
	t.Parallel()

	_, err := NewEncoder().Encode(errWriter{}, []byte("data"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestDecodeExact(t *testing.T) {
	t.Parallel()

	unit := encode(t, []byte("exactly eighteen b"))
	dec := NewDecoder()

	out, err := dec.DecodeExact(bytes.NewReader(unit), 0, int64(len(unit)), 18)
	require.NoError(t, err)
	assert.Equal(t, "exactly eighteen b", string(out))

	_, err = dec.DecodeExact(bytes.NewReader(unit), 0, int64(len(unit)), 17)
	require.ErrorIs(t, err, archtype.ErrCorruptBlock)

	_, err = dec.DecodeExact(bytes.NewReader(unit), 0, int64(len(unit)), 19)
	require.ErrorIs(t, err, archtype.ErrCorruptBlock)

	empty := encode(t, nil)
	out, err = dec.DecodeExact(bytes.NewReader(empty), 0, int64(len(empty)), 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}
