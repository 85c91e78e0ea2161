// Package viz previews a walk in the terminal using the Bubble Tea
// framework.
//
// The preview runs the real display driver against an emulated SH1106 and
// renders the emulator's RAM as braille, two by four pixels per cell:
//
//   - [Model]: the interactive preview
//   - [Canvas]: braille-based pixel canvas
//   - Theme selection matching common panel colors
//
// # Key Bindings
//
//	Space - Pause/Resume the walk
//	N     - Single step while paused
//	R     - Clear the trail and restart at the origin
//	+/-   - Change walking speed
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
package viz
