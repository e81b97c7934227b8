package domain

import "time"

// MonthlyClosure marks an accounting period read-only for direct posting.
// Writes targeting a closed period must go through the retroactive
// adjustment workflow instead.
type MonthlyClosure struct {
	ID       string
	Month    int
	Year     int
	ClosedBy string
	ClosedAt time.Time
}

// Period returns the closed period.
func (c *MonthlyClosure) Period() Period {
	return Period{Month: c.Month, Year: c.Year}
}
