// Package probe inspects an exported GIF with ffprobe: dimensions, frame
// count, frame rate, duration and size, from a single JSON call.
package probe
