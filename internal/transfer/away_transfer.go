package transfer

type AwayDaysReplace struct {
	AwayDates []string `json:"awayDates" validate:"required,dive,datetime=2006-01-02"`
}

// CoverageResult reports the outcome of the just-in-time away-day
// check performed before a post is committed to the external queue.
// It is best-effort: a reconciliation failure is reported as a
// negative result, never as an error.
type CoverageResult struct {
	IsAwayDay         bool `json:"isAwayDay"`
	AutoApproved      bool `json:"autoApproved"`
	AutoApprovedCount int  `json:"autoApprovedCount"`
}
