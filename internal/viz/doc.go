// Package viz hosts the particle field in a terminal.
//
// The package implements a TUI using the Bubble Tea framework:
//
//   - [Model]: the Bubble Tea model driving an attached engine
//   - [Canvas]: Braille canvas with per-cell color, rasterized from a
//     dot-resolution surface
//   - Themes for the stats panel
//
// Terminal cells map to the field through a fixed scale, so a field laid
// out for full-size pixels keeps its density in a terminal.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Repopulate the field
//	T     - Cycle themes
//	G     - Toggle GIF recording
//	S     - Save a PNG snapshot
//	?     - Show help overlay
//	Q     - Quit
//
// Recordings and snapshots go to the capture store when one is configured.
package viz
