// Package testutil provides a fake ffmpeg/gifski/ffprobe for tests.
//
// The fake is the test binary itself: a package's TestMain calls
// [RunFakeEncoderIfRequested] first, and tests point the configured binary
// paths at [FakeEncoder]. Behavior is picked from the command line (capture,
// export, filter listing, version, probe) and tuned with a mode string.
package testutil

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"
)

const (
	envFake    = "SNIPGIF_FAKE_ENCODER"
	envMode    = "SNIPGIF_FAKE_MODE"
	envArgsLog = "SNIPGIF_FAKE_ARGS_LOG"
)

// Fake encoder modes. Several may be combined with commas.
const (
	ModeNormal       = ""
	ModeCaptureFail  = "capture-fail"  // exit 1 at once with a ddagrab error
	ModeCaptureEarly = "capture-early" // write three frames, then exit 0
	ModeNoFrames     = "no-frames"     // run until quit without writing
	ModeStubborn     = "stubborn"      // ignore "q" and SIGTERM
	ModeIgnoreQuit   = "ignore-quit"   // ignore "q" only
	ModeExportFail   = "export-fail"   // gifski exits 1 with a permission error
	ModeNoDdagrab    = "no-ddagrab"    // -filters output lacks ddagrab
	ModeExportSlow   = "export-slow"   // gifski sleeps before writing
)

// FakeGIFHeader starts every file the fake gifski writes. The rest of the
// file lists the input frame base names, one per line, in argument order.
const FakeGIFHeader = "GIF89a-fake\n"

// FakeEncoder enables the fake for the current test and returns the path to
// use for every encoder binary. The returned log path receives one line per
// fake invocation with its arguments joined by tabs.
func FakeEncoder(t *testing.T, mode string) (bin, argsLog string) {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("resolve test binary: %v", err)
	}
	argsLog = filepath.Join(t.TempDir(), "fake-args.log")
	t.Setenv(envFake, "1")
	t.Setenv(envMode, mode)
	t.Setenv(envArgsLog, argsLog)
	return exe, argsLog
}

// SetFakeMode switches the mode of an enabled fake for later invocations.
func SetFakeMode(t *testing.T, mode string) {
	t.Helper()
	t.Setenv(envMode, mode)
}

// ReadArgsLog returns the logged invocations, one []string per call.
func ReadArgsLog(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read args log: %v", err)
	}
	var calls [][]string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line != "" {
			calls = append(calls, strings.Split(line, "\t"))
		}
	}
	return calls
}

// RunFakeEncoderIfRequested turns the process into the fake encoder and exits
// when the fake is enabled. Call it first thing in TestMain.
func RunFakeEncoderIfRequested() {
	if os.Getenv(envFake) != "1" {
		return
	}
	args := os.Args[1:]
	logArgs(args)
	modes := strings.Split(os.Getenv(envMode), ",")
	os.Exit(fakeMain(args, func(m string) bool {
		for _, have := range modes {
			if have == m {
				return true
			}
		}
		return false
	}))
}

func logArgs(args []string) {
	path := os.Getenv(envArgsLog)
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintln(f, strings.Join(args, "\t"))
}

func fakeMain(args []string, mode func(string) bool) int {
	switch {
	case hasArg(args, "-filter_complex"):
		return fakeCapture(args, mode)
	case hasArg(args, "--output"):
		return fakeGifski(args, mode)
	case hasArg(args, "-filters"):
		fmt.Println(" ... buffer            |->V       Buffer video frames.")
		if !mode(ModeNoDdagrab) {
			fmt.Println(" ... ddagrab           |->V       Grab Windows Desktop images using Desktop Duplication API")
		}
		return 0
	case hasArg(args, "-version"):
		fmt.Println("ffmpeg version 7.1-fake Copyright (c) 2000-2024 the FFmpeg developers")
		return 0
	case hasArg(args, "--version"):
		fmt.Println("gifski 1.32.0")
		return 0
	case hasArg(args, "-show_streams"):
		fmt.Println(`{"streams":[{"codec_name":"gif","codec_type":"video","width":600,"height":400,"nb_read_frames":"25","r_frame_rate":"10/1"}],"format":{"format_name":"gif","duration":"2.500000","size":"4096"}}`)
		return 0
	}
	fmt.Fprintf(os.Stderr, "fake encoder: unrecognized arguments %q\n", args)
	return 2
}

var reFramerate = regexp.MustCompile(`framerate=(\d+)`)

func fakeCapture(args []string, mode func(string) bool) int {
	if mode(ModeCaptureFail) {
		fmt.Fprintln(os.Stderr, "[AVFilterGraph @ 0x1] No such filter: 'ddagrab'")
		return 1
	}

	pattern := args[len(args)-1]
	fps := 50
	if m := reFramerate.FindStringSubmatch(strings.Join(args, " ")); m != nil {
		fps, _ = strconv.Atoi(m[1])
	}
	interval := time.Second / time.Duration(max(fps, 1))

	if mode(ModeStubborn) {
		signal.Ignore(syscall.SIGTERM)
	}

	quit := make(chan struct{})
	go func() {
		r := bufio.NewReader(os.Stdin)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			if b == 'q' && !mode(ModeIgnoreQuit) && !mode(ModeStubborn) {
				close(quit)
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 1; ; i++ {
		if mode(ModeCaptureEarly) && i > 3 {
			return 0
		}
		if !mode(ModeNoFrames) {
			name := fmt.Sprintf(pattern, i)
			if err := os.WriteFile(name, []byte(filepath.Base(name)), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
				return 1
			}
		}
		select {
		case <-quit:
			return 0
		case <-ticker.C:
		}
	}
}

// gifskiValueFlags take one argument.
var gifskiValueFlags = map[string]bool{
	"--fps": true, "--width": true, "--repeat": true, "--matte": true,
	"--quality": true, "--motion-quality": true, "--lossy-quality": true,
	"--output": true,
}

func fakeGifski(args []string, mode func(string) bool) int {
	if mode(ModeExportFail) {
		fmt.Fprintln(os.Stderr, "error: Permission denied (os error 13)")
		return 1
	}
	if mode(ModeExportSlow) {
		time.Sleep(300 * time.Millisecond)
	}

	var output string
	var inputs []string
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--output" && i+1 < len(args):
			output = args[i+1]
			i++
		case gifskiValueFlags[args[i]]:
			i++
		case strings.HasPrefix(args[i], "--"):
		default:
			inputs = append(inputs, args[i])
		}
	}
	if len(inputs) < 2 {
		fmt.Fprintln(os.Stderr, "error: Only a single image file was given as an input. This is not enough for an animation.")
		return 1
	}

	var b strings.Builder
	b.WriteString(FakeGIFHeader)
	for _, in := range inputs {
		if _, err := os.ReadFile(in); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		b.WriteString(filepath.Base(in))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(output, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}
