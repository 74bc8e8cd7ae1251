package naming

import (
	"path/filepath"
	"strings"
	"time"
)

// OutputExt is the extension of exported files.
const OutputExt = ".gif"

// DefaultOutputName returns the timestamped name used when no destination
// is given: snip-YYYYMMDD-HHMMSS.gif.
func DefaultOutputName(now time.Time) string {
	return "snip-" + now.Format("20060102-150405") + OutputExt
}

// GetOutputPath resolves the destination for an export. An empty dest
// yields DefaultOutputName in the current directory; a dest that is an
// existing directory receives DefaultOutputName inside it; a dest without
// the .gif extension has it appended.
//
//	""            -> snip-20261019-150405.gif
//	"clips/"      -> clips/snip-20261019-150405.gif
//	"demo"        -> demo.gif
//	"demo.GIF"    -> demo.GIF
func GetOutputPath(dest string, isDir bool, now time.Time) string {
	if dest == "" {
		return DefaultOutputName(now)
	}
	if isDir || strings.HasSuffix(dest, "/") || strings.HasSuffix(dest, string(filepath.Separator)) {
		return filepath.Join(dest, DefaultOutputName(now))
	}
	if !strings.EqualFold(filepath.Ext(dest), OutputExt) {
		return dest + OutputExt
	}
	return dest
}
