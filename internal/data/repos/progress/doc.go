// Package progress holds the per-user progress tables. Rows keyed by
// (user, target) are created with ON CONFLICT DO NOTHING and then locked,
// so concurrent writers for the same key serialize on the row lock.
package progress
