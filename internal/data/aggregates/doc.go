// Package aggregates implements the write boundaries declared in
// internal/domain/aggregates on top of the table repos. Every write runs in one
// transaction through executeWrite; events go out only after commit.
package aggregates
