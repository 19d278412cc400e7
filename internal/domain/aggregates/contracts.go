package aggregates

import "slices"

// Contract names an aggregate and the tables its write methods may touch.
// Every write method runs in one transaction it opens itself; read models
// live on the table repos and never go through an aggregate.
type Contract struct {
	Name   string
	Writes []string
	Notes  string
}

// Aggregate is implemented by every write-side aggregate.
type Aggregate interface {
	Contract() Contract
}

// Owns reports whether table is in the aggregate's write set.
func (c Contract) Owns(table string) bool {
	return slices.Contains(c.Writes, table)
}
