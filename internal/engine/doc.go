// Package engine implements the chess rules: legal move generation, move
// application, game termination, the game clock and static evaluation.
//
// Every function is pure. A GameState goes in, a new GameState (or an
// error) comes out, and the input is never modified, so callers may use
// the package from any number of goroutines as long as each owns its state.
package engine
