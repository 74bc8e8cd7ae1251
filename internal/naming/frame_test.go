package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{1, "frame0001.png"},
		{42, "frame0042.png"},
		{9999, "frame9999.png"},
		{10000, "frame10000.png"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FrameName(tt.index))
		})
	}
}

func TestParseFrameName(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"frame0001.png", 1, false},
		{"frame0100.png", 100, false},
		{"frame12345.png", 12345, false},
		{"frame001.png", 0, true},
		{"frame00001.png", 0, true},
		{"frame0001.jpg", 0, true},
		{"shot0001.png", 0, true},
		{"frame00a1.png", 0, true},
		{"frame+001.png", 0, true},
		{"frame_subset", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFrameName(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, IsFrameName(tt.name))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFrameName_RoundTrip(t *testing.T) {
	for i := 0; i <= 9999; i++ {
		name := FrameName(i)
		got, err := ParseFrameName(name)
		require.NoError(t, err, name)
		require.Equal(t, i, got)
		require.Equal(t, name, FrameName(got))
	}
}

func TestFramePattern(t *testing.T) {
	assert.Equal(t, "frame%04d.png", FramePattern())
	assert.Equal(t, FrameName(7), fmt.Sprintf(FramePattern(), 7))
	assert.False(t, IsFrameName(SubsetDirName), "subset dir is not a frame")
}

func TestReverseIndex_Involution(t *testing.T) {
	const last = 57
	for i := 1; i <= last; i++ {
		r := ReverseIndex(i, last)
		assert.GreaterOrEqual(t, r, 1)
		assert.LessOrEqual(t, r, last)
		assert.Equal(t, i, ReverseIndex(r, last))
	}
	assert.Equal(t, last, ReverseIndex(1, last))
	assert.Equal(t, 1, ReverseIndex(last, last))
}

func TestGetOutputPath(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		name  string
		dest  string
		isDir bool
		want  string
	}{
		{"empty uses default", "", false, "snip-20261019-150405.gif"},
		{"directory", "clips", true, filepath.Join("clips", "snip-20261019-150405.gif")},
		{"trailing slash", "clips/", false, filepath.Join("clips", "snip-20261019-150405.gif")},
		{"extension added", "demo", false, "demo.gif"},
		{"extension kept", "demo.gif", false, "demo.gif"},
		{"extension case-insensitive", "demo.GIF", false, "demo.GIF"},
		{"other extension", "demo.png", false, "demo.png.gif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetOutputPath(tt.dest, tt.isDir, now))
		})
	}
}

func TestCollisionResolver(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "demo.gif")

	cr := NewCollisionResolver()
	assert.Equal(t, target, cr.Resolve(target), "free path returned as-is")
	assert.Equal(t, filepath.Join(dir, "demo (1).gif"), cr.Resolve(target), "claimed path gets a suffix")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "demo (2).gif"), nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "demo (3).gif"), cr.Resolve(target), "existing file skipped")

	other := filepath.Join(dir, "other.gif")
	require.NoError(t, os.WriteFile(other, nil, 0o644))
	assert.Equal(t, filepath.Join(dir, "other (1).gif"), NewCollisionResolver().Resolve(other))
}
