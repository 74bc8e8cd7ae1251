// Package naming owns every filename the tool produces: the fixed-width
// frame files written by the capture process (and their reverse-playback
// renumbering), the subset directory name, and export destinations,
// including collision-free alternatives when overwriting is not wanted.
package naming
