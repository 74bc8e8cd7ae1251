package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/snipgif/internal/config"
	"github.com/backmassage/snipgif/internal/testutil"
)

func TestMain(m *testing.M) {
	testutil.RunFakeEncoderIfRequested()
	os.Exit(m.Run())
}

// --- Builders ---

func TestCaptureArgs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FFmpegPath = "ffmpeg"
	cfg.Monitor = 1
	cfg.CaptureFPS = 30
	cfg.DrawMouse = false

	t.Run("full monitor", func(t *testing.T) {
		args := CaptureArgs(&cfg, "tmp", nil)
		assert.Equal(t, []string{
			"ffmpeg", "-hide_banner", "-loglevel", "error",
			"-init_hw_device", "d3d11va",
			"-filter_complex", "ddagrab=output_idx=1:framerate=30:draw_mouse=false,hwdownload,format=bgra",
			filepath.Join("tmp", "frame%04d.png"),
		}, args)
	})

	t.Run("region", func(t *testing.T) {
		region := &config.Region{Width: 640, Height: 480, OffsetX: 10, OffsetY: 20}
		args := CaptureArgs(&cfg, "tmp", region)
		assert.Contains(t, args,
			"ddagrab=output_idx=1:framerate=30:draw_mouse=false:video_size=640x480:offset_x=10:offset_y=20,hwdownload,format=bgra")
	})

	t.Run("verbose", func(t *testing.T) {
		v := cfg
		v.Verbose = true
		args := CaptureArgs(&v, "tmp", nil)
		assert.Equal(t, "info", args[3])
	})
}

func TestExportArgs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GifskiPath = "gifski"
	cfg.ExportFPS = 12
	cfg.OutputWidth = 800
	cfg.Quality = 90
	cfg.MotionQuality = 80
	cfg.LossyQuality = 70

	frames := []string{"a/frame0002.png", "a/frame0003.png"}

	args := ExportArgs(&cfg, frames, "out.gif", &config.Region{Width: 500, Height: 300})
	assert.Equal(t, []string{
		"gifski",
		"--fps", "12",
		"--width", "500",
		"--quiet",
		"--repeat", "0",
		"--matte", "313338",
		"--quality", "90",
		"--motion-quality", "80",
		"--lossy-quality", "70",
		"--output", "out.gif",
		"a/frame0002.png", "a/frame0003.png",
	}, args)

	args = ExportArgs(&cfg, frames, "out.gif", nil)
	assert.Equal(t, "800", args[4], "no region keeps configured width")
}

// --- Errors ---

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{"empty", "", ""},
		{"no ddagrab", "[AVFilterGraph @ 0x1] No such filter: 'ddagrab'", "this ffmpeg build has no ddagrab filter"},
		{"device", "Failed to create a D3D11 device", "D3D11 hardware device unavailable"},
		{"bad output", "[ddagrab @ 0x1] Failed to get output 3", "monitor index not available for desktop duplication"},
		{"too few frames", "error: Only a single image file was given as an input.", "not enough frames to encode"},
		{"permission", "error: Permission denied (os error 13)", "permission denied writing output"},
		{"unknown", "something else entirely", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.stderr))
		})
	}
}

func TestProcessError(t *testing.T) {
	err := &ProcessError{Op: OpCapture, Args: []string{"ffmpeg"}, ExitCode: 1,
		Stderr: "line one\nNo such filter: 'ddagrab'\n"}
	assert.ErrorIs(t, err, ErrCaptureFailed)
	assert.NotErrorIs(t, err, ErrExportFailed)
	assert.Equal(t, "capture failed: ffmpeg exited with status 1 (this ffmpeg build has no ddagrab filter)", err.Error())

	cause := errors.New("boom")
	err = &ProcessError{Op: OpExport, Args: []string{"gifski"}, ExitCode: -1, Stderr: "first\nlast words\n", Err: cause}
	assert.ErrorIs(t, err, ErrExportFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "export failed: gifski: boom: last words", err.Error())
}

func TestTailBuffer(t *testing.T) {
	tb := newTailBuffer(8)
	_, _ = tb.Write([]byte("hello "))
	_, _ = tb.Write([]byte("world"))
	assert.Equal(t, "lo world", tb.String())
}

// --- Run / Process against the fake encoder ---

func fakeExportArgs(t *testing.T, bin string, n int) ([]string, string) {
	t.Helper()
	dir := t.TempDir()
	var frames []string
	for i := 1; i <= n; i++ {
		p := filepath.Join(dir, fmt.Sprintf("frame%04d.png", i))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		frames = append(frames, p)
	}
	cfg := config.DefaultConfig()
	cfg.GifskiPath = bin
	out := filepath.Join(dir, "out.gif")
	return ExportArgs(&cfg, frames, out, nil), out
}

func TestRun_Success(t *testing.T) {
	bin, _ := testutil.FakeEncoder(t, testutil.ModeNormal)
	args, out := fakeExportArgs(t, bin, 3)

	require.NoError(t, Run(context.Background(), OpExport, args, nil))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), testutil.FakeGIFHeader))
}

func TestRun_Failure(t *testing.T) {
	bin, _ := testutil.FakeEncoder(t, testutil.ModeExportFail)
	args, _ := fakeExportArgs(t, bin, 3)

	err := Run(context.Background(), OpExport, args, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportFailed)

	var pe *ProcessError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.ExitCode)
	assert.Equal(t, "permission denied writing output", pe.Hint())
}

func TestRun_MissingBinary(t *testing.T) {
	err := Run(context.Background(), OpExport, []string{filepath.Join(t.TempDir(), "nope")}, nil)
	assert.ErrorIs(t, err, ErrExportFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func startFakeCapture(t *testing.T, mode string) (*Process, string) {
	t.Helper()
	bin, _ := testutil.FakeEncoder(t, mode)
	cfg := config.DefaultConfig()
	cfg.FFmpegPath = bin
	cfg.CaptureFPS = 50
	dir := t.TempDir()

	p, err := Start(OpCapture, CaptureArgs(&cfg, dir, nil), nil)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p, dir
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
}

func TestProcess_StopQuit(t *testing.T) {
	p, dir := startFakeCapture(t, testutil.ModeNormal)
	waitForFile(t, filepath.Join(dir, "frame0002.png"))

	assert.Equal(t, StopQuit, p.Stop(5*time.Second, 5*time.Second))
	assert.True(t, p.Exited())
	assert.NoError(t, p.Result())
}

func TestProcess_StopTerminates(t *testing.T) {
	p, _ := startFakeCapture(t, testutil.ModeIgnoreQuit)
	mode := p.Stop(100*time.Millisecond, 5*time.Second)
	assert.Contains(t, []StopMode{StopTerminated, StopKilled}, mode)
	assert.True(t, p.Exited())
}

func TestProcess_StopKills(t *testing.T) {
	p, _ := startFakeCapture(t, testutil.ModeStubborn)
	// Give the child time to install its SIGTERM handler.
	time.Sleep(200 * time.Millisecond)
	mode := p.Stop(50*time.Millisecond, 50*time.Millisecond)
	assert.Contains(t, []StopMode{StopTerminated, StopKilled}, mode)
	assert.True(t, p.Exited())
}

func TestProcess_EarlyExit(t *testing.T) {
	p, _ := startFakeCapture(t, testutil.ModeCaptureFail)
	<-p.Done()

	err := p.Result()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCaptureFailed)
	assert.Contains(t, p.Stderr(), "ddagrab")
	assert.Equal(t, StopExited, p.Stop(time.Second, time.Second))
}

func TestProcess_UnexpectedCleanExit(t *testing.T) {
	p, _ := startFakeCapture(t, testutil.ModeCaptureEarly)
	<-p.Done()

	err := p.UnexpectedExit()
	assert.ErrorIs(t, err, ErrCaptureFailed)
	assert.ErrorIs(t, err, ErrExitedEarly)
}

func TestProcess_CloseIsIdempotent(t *testing.T) {
	p, _ := startFakeCapture(t, testutil.ModeNormal)
	p.Close()
	p.Close()
	assert.True(t, p.Exited())
}
