// Package cli implements the interactive terminal front end of the reveal
// board.
//
// The App type reads commands from a line-oriented REPL and drives a
// board.Engine: logging in, unlocking blocks, buying bonus packs and the
// admin actions. Rendering is plain text; the grid is drawn as a
// downsampled map sized to the terminal.
package cli
