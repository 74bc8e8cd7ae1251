package display

import (
	"fmt"
	"io"

	"github.com/backmassage/snipgif/internal/term"
)

// PrintBanner prints the ASCII art banner to w; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer, version string) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `           _                _  __
 ___ _ __ (_)_ __   __ _(_)/ _|
/ __| '_ \| | '_ \ / _`+"`"+` | | |_
\__ \ | | | | |_) | (_| | |  _|
|___/_| |_|_| .__/ \__, |_|_|
            |_|    |___/
`)
	fmt.Fprint(w, term.NC)
	if version != "" {
		fmt.Fprintf(w, "%sscreen to GIF %s%s\n", term.Dim, version, term.NC)
	}
}
