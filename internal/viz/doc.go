// Package viz draws the simulation in the terminal with Bubble Tea.
//
//   - [Model]: live view of one simulator, stepped once per frame
//   - [Canvas]: braille pixel canvas the scene is drawn on
//   - [Recorder]: GIF capture of canvas frames
//   - [RunInteractive]: scene menu and parameter editor in front of the live view
//
// # Key Bindings
//
//	Space     - Pause/Resume
//	R         - Reset bodies to their starting positions
//	1 / 2 / 3 - Water density low / normal / high
//	Tab       - Choose the body shown in the depth chart
//	T         - Cycle colour themes
//	G         - Toggle GIF recording (written to ballsim.gif)
//	Q / Esc   - Quit
//	?         - Help overlay
package viz
