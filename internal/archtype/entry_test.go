package archtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode uint64
		want Kind
	}{
		{"regular", ModeRegular | 0o644, KindFile},
		{"directory", ModeDir | 0o755, KindDir},
		{"symlink", 0o120000 | 0o777, KindOther},
		{"fifo", 0o010000 | 0o600, KindOther},
		{"no type bits", 0o644, KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.mode))
		})
	}
}

func TestEntryAccessors(t *testing.T) {
	t.Parallel()

	e := Entry{Path: "d", Mode: ModeDir | 0o750, Mtime: 1700000000, Atime: 1700000100}
	assert.True(t, e.IsDir())
	assert.Equal(t, "dir", e.Kind().String())
	assert.Equal(t, int64(1700000000), e.ModTime().Unix())
	assert.Equal(t, int64(1700000100), e.AccessTime().Unix())
	assert.Equal(t, uint32(0o750), uint32(e.Perm()))
}

func TestBlockCompressedSize(t *testing.T) {
	t.Parallel()

	b := Block{Start: 4, End: 104}
	assert.Equal(t, uint64(100), b.CompressedSize())
}
