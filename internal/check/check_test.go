package check

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/monitor"
	"github.com/backmassage/snipgif/internal/testutil"
)

func TestMain(m *testing.M) {
	testutil.RunFakeEncoderIfRequested()
	os.Exit(m.Run())
}

// recLogger records every line as "LEVEL message".
type recLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recLogger) add(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func (r *recLogger) Info(f string, a ...any)    { r.add("INFO", f, a...) }
func (r *recLogger) Success(f string, a ...any) { r.add("SUCCESS", f, a...) }
func (r *recLogger) Warn(f string, a ...any)    { r.add("WARN", f, a...) }
func (r *recLogger) Error(f string, a ...any)   { r.add("ERROR", f, a...) }
func (r *recLogger) Debug(f string, a ...any)   { r.add("DEBUG", f, a...) }

func (r *recLogger) text() string { return strings.Join(r.lines, "\n") }

func fakeConfig(t *testing.T, mode string) config.Config {
	t.Helper()
	bin, _ := testutil.FakeEncoder(t, mode)
	cfg := config.DefaultConfig()
	cfg.FFmpegPath, cfg.GifskiPath, cfg.FFprobePath = bin, bin, bin
	return cfg
}

func TestCheckDeps(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	t.Run("all present", func(t *testing.T) {
		cfg := fakeConfig(t, testutil.ModeNormal)
		assert.NoError(t, CheckDeps(&cfg))
	})
	t.Run("no ffmpeg", func(t *testing.T) {
		cfg := fakeConfig(t, testutil.ModeNormal)
		cfg.FFmpegPath = missing
		assert.ErrorIs(t, CheckDeps(&cfg), ErrFfmpegNotFound)
	})
	t.Run("no gifski", func(t *testing.T) {
		cfg := fakeConfig(t, testutil.ModeNormal)
		cfg.GifskiPath = missing
		assert.ErrorIs(t, CheckDeps(&cfg), ErrGifskiNotFound)
	})
	t.Run("no ddagrab", func(t *testing.T) {
		cfg := fakeConfig(t, testutil.ModeNoDdagrab)
		assert.ErrorIs(t, CheckDeps(&cfg), ErrNoDdagrab)
	})
}

func TestRunCheck(t *testing.T) {
	cfg := fakeConfig(t, testutil.ModeNormal)
	cfg.FFprobePath = filepath.Join(t.TempDir(), "missing")
	log := &recLogger{}

	ok := RunCheck(&cfg, monitor.StaticProvider{image.Rect(0, 0, 1920, 1080)}, log)
	assert.True(t, ok, log.text())

	out := log.text()
	assert.Contains(t, out, "SUCCESS ffmpeg: ffmpeg version 7.1-fake")
	assert.Contains(t, out, "SUCCESS ddagrab filter available")
	assert.Contains(t, out, "SUCCESS gifski: gifski 1.32.0")
	assert.Contains(t, out, "WARN ffprobe not found")
	assert.Contains(t, out, "INFO   0: 1920x1080 at (0,0)")
}

func TestRunCheck_MissingDdagrab(t *testing.T) {
	cfg := fakeConfig(t, testutil.ModeNoDdagrab)
	log := &recLogger{}
	assert.False(t, RunCheck(&cfg, nil, log))
	assert.Contains(t, log.text(), "ERROR ffmpeg lacks the ddagrab filter")
}

func TestDdagrabPattern(t *testing.T) {
	assert.True(t, reDdagrabFilter.MatchString(" ... ddagrab           |->V       Grab Windows Desktop images"))
	assert.False(t, reDdagrabFilter.MatchString(" ... gfxcapture        |->V       Windows Graphics Capture"))
}
