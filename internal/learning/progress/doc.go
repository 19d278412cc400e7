// Package progress holds the state-transition rules of the vocabulary progress
// engine as pure functions. Callers load the current rows, apply a rule, and
// persist the returned state; nothing here touches the database or the clock.
package progress
