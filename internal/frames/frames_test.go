package frames

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/snipgif/internal/naming"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// --- Sample ---

func TestSample_Properties(t *testing.T) {
	fractions := []float64{0.01, 0.1, 0.25, 1.0 / 3, 0.5, 0.66, 0.75, 0.9, 0.99, 1}
	for n := 1; n <= 120; n++ {
		items := seq(n)
		for _, f := range fractions {
			got := Sample(items, f)
			want := int(math.RoundToEven(float64(n) * f))
			require.Len(t, got, want, "n=%d f=%v", n, f)
			for i := 1; i < len(got); i++ {
				require.Less(t, got[i-1], got[i], "strictly increasing, n=%d f=%v", n, f)
			}
			for _, v := range got {
				require.GreaterOrEqual(t, v, 0)
				require.Less(t, v, n)
			}
		}
	}
}

func TestSample_Identity(t *testing.T) {
	for _, n := range []int{1, 2, 7, 100} {
		items := seq(n)
		assert.Equal(t, items, Sample(items, 1.0))
		assert.Equal(t, items, Sample(items, 1.5), "fraction above 1 clamps")
	}
}

func TestSample_HalfOfHundred(t *testing.T) {
	got := Sample(seq(100), 0.5)
	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, 2*i+1, v, "central element of bin [%d,%d)", 2*i, 2*i+2)
	}
}

func TestSample_CentralElement(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		fraction float64
		want     []int
	}{
		{"odd bins", 9, 1.0 / 3, []int{1, 4, 7}},
		{"even bins upper middle", 8, 0.25, []int{2, 6}},
		{"uneven split", 10, 0.3, []int{2, 5, 8}},
		{"single bin", 5, 0.2, []int{2}},
		{"half rounds to even", 5, 0.5, []int{1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sample(seq(tt.n), tt.fraction))
		})
	}
}

func TestSample_Degenerate(t *testing.T) {
	assert.Nil(t, Sample([]int{}, 0.5))
	assert.Nil(t, Sample(seq(10), 0))
	assert.Nil(t, Sample(seq(10), -1))
	assert.Nil(t, Sample(seq(1), 0.3), "rounds to zero bins")
	assert.Nil(t, Sample(seq(10), math.NaN()))
}

func TestSample_Deterministic(t *testing.T) {
	items := seq(333)
	assert.Equal(t, Sample(items, 0.37), Sample(items, 0.37))
}

// --- List / DiscardStartupFrame ---

func writeFrames(t *testing.T, dir string, from, to int) {
	t.Helper()
	for i := from; i <= to; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, naming.FrameName(i)), []byte{byte(i)}, 0o644))
	}
}

func TestList_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 1, 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, naming.FrameName(10000)), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, naming.SubsetDirName), 0o755))

	got, err := List(dir)
	require.NoError(t, err)

	var idx []int
	for _, f := range got {
		idx = append(idx, f.Index)
	}
	assert.Equal(t, []int{1, 2, 3, 10000}, idx)
	assert.Equal(t, "frame0002.png", got[1].Name())
	assert.Equal(t, filepath.Join(dir, "frame0003.png"), Paths(got)[2])
}

func TestList_MissingDir(t *testing.T) {
	got, err := List(filepath.Join(t.TempDir(), "gone"))
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscardStartupFrame(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 1, 4)

	removed, err := DiscardStartupFrame(dir)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, filepath.Join(dir, "frame0001.png"))

	removed, err = DiscardStartupFrame(dir)
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, got[0].Index)
}

// --- BuildSubset ---

// assertLinked checks that link resolves to the same file as original
// rather than to a copy of its bytes.
func assertLinked(t *testing.T, link, original string) {
	t.Helper()
	li, err := os.Stat(link)
	require.NoError(t, err)
	oi, err := os.Stat(original)
	require.NoError(t, err)
	assert.True(t, os.SameFile(li, oi), "%s is not a link to %s", link, original)

	lfi, err := os.Lstat(link)
	require.NoError(t, err)
	if lfi.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(link)
		require.NoError(t, err)
		abs, err := filepath.Abs(original)
		require.NoError(t, err)
		assert.Equal(t, abs, target)
	}
}

func TestBuildSubset_HalfOfHundred(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 1, 100)
	all, err := List(dir)
	require.NoError(t, err)

	out, err := BuildSubset(dir, all, 0.5, false)
	require.NoError(t, err)
	require.Len(t, out, 50)

	linked, err := List(SubsetDir(dir))
	require.NoError(t, err)
	require.Len(t, linked, 50)
	for i, f := range linked {
		assert.Equal(t, 2*i+2, f.Index, "frame indices are 1-based")
		data, err := os.ReadFile(f.Path)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(f.Index)}, data, "same content as the original")
		assertLinked(t, f.Path, filepath.Join(dir, f.Name()))
	}
}

func TestBuildSubset_Reverse(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 2, 6)
	all, err := List(dir)
	require.NoError(t, err)

	out, err := BuildSubset(dir, all, 1, true)
	require.NoError(t, err)
	require.Len(t, out, 5)

	// last=6: 2->5, 3->4, 4->3, 5->2, 6->1
	for _, f := range out {
		data, err := os.ReadFile(f.Path)
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(naming.ReverseIndex(f.Index, 6))}, data)
		assertLinked(t, f.Path, filepath.Join(dir, naming.FrameName(naming.ReverseIndex(f.Index, 6))))
	}
	assert.Equal(t, 1, out[0].Index)
	assert.Equal(t, 5, out[len(out)-1].Index)

	originals, err := List(dir)
	require.NoError(t, err)
	assert.Len(t, originals, 5, "originals untouched")
}

func TestBuildSubset_ReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 1, 10)
	all, err := List(dir)
	require.NoError(t, err)

	_, err = BuildSubset(dir, all, 1, false)
	require.NoError(t, err)
	_, err = BuildSubset(dir, all, 0.2, false)
	require.NoError(t, err)

	linked, err := List(SubsetDir(dir))
	require.NoError(t, err)
	assert.Len(t, linked, 2)
}

func TestBuildSubset_TinyFractionKeepsOne(t *testing.T) {
	dir := t.TempDir()
	writeFrames(t, dir, 1, 3)
	all, err := List(dir)
	require.NoError(t, err)

	out, err := BuildSubset(dir, all, 0.01, false)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Index)
}

func TestBuildSubset_NoFrames(t *testing.T) {
	_, err := BuildSubset(t.TempDir(), nil, 0.5, false)
	assert.Error(t, err)
}
