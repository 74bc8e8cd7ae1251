// Package pipeline runs one recording session end to end for the CLI:
// resolve the monitor and output path, capture until a stop trigger,
// export the GIF, probe it, and report session stats.
package pipeline
