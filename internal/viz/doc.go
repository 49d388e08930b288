// Package viz renders a running simulation in the terminal with Bubble Tea.
//
// [Model] steps a [sim.Driver] on every tick and draws the particles on a
// braille [Canvas] through a rotatable [Camera], next to the latest energy
// sample and an energy history plot.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	F     - Re-frame the camera on the particles
//	x/y/z - Rotate (shift reverses)
//	+/-   - Zoom
//	]/[   - More/fewer steps per frame
//	?     - Show help
//	Q     - Quit
package viz
