// Package ffmpeg builds and runs the two external encoders: ffmpeg for
// desktop-duplication capture and gifski for GIF export.
//
// Capture is long-running and owned through a [Process], which is stopped
// cooperatively ("q" on stdin), then terminated, then killed. Export runs to
// completion through [Run]. Both report failures as *[ProcessError], whose
// Hint classifies the captured stderr tail with pre-compiled regexes.
package ffmpeg
