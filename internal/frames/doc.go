// Package frames works on the frame files of a capture session: listing
// them in index order, discarding the startup artifact, choosing an evenly
// spread subset, and linking that subset (optionally renumbered for
// reverse playback) into a directory the GIF encoder can read.
package frames
