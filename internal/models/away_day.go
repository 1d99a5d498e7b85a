package models

import "time"

// AwayDay is a calendar date (midnight, UTC) on which the operator will
// not manage posting manually. Dates are unique.
type AwayDay struct {
	ID        int64     `db:"id" json:"id"`
	AwayDate  time.Time `db:"away_date" json:"away_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
