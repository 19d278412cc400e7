// Package aggregates defines the write boundaries of the progress engine.
//
// Each contract names the rows it mutates atomically for one user. Inputs carry
// the caller's user id explicitly; nothing is read from ambient request state.
package aggregates
