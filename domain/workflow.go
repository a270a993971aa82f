package domain

// Transitions maps a current status to the statuses it may move to.
type Transitions map[string][]string

var (
	ComplaintTransitions = Transitions{
		ComplaintStatusPending:     {ComplaintStatusUnderReview},
		ComplaintStatusUnderReview: {ComplaintStatusResolved, ComplaintStatusRejected},
		ComplaintStatusResolved:    {},
		ComplaintStatusRejected:    {},
	}

	FSSAIStatusTransitions = Transitions{
		FSSAIStatusPending:  {FSSAIStatusApproved, FSSAIStatusRejected},
		FSSAIStatusApproved: {},
		FSSAIStatusRejected: {FSSAIStatusPending},
	}
)

// Allows reports whether moving from -> to is legal. Requesting the current
// status again is accepted as a no-op. Unknown statuses are never legal.
func (t Transitions) Allows(from, to string) bool {
	next, known := t[from]
	if !known {
		return false
	}
	if _, ok := t[to]; !ok {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
