package gamification

// Rejection reason codes. Rejections are ordinary result values, never errors:
// the HTTP layer forwards them so the UI can decide to retry, surface or drop.
const (
	ReasonMissingInput     = "missing employee or action type"
	ReasonBlacklisted      = "employee temporarily blacklisted"
	ReasonForbiddenAction  = "action type never earns points"
	ReasonCooldown         = "too soon after previous action"
	ReasonAlreadyToday     = "action already done today"
	ReasonReplay           = "same session fingerprint replayed"
	ReasonUnknownAction    = "unrecognized action type"
	ReasonEmployeeNotFound = "employee not found"
	ReasonNotVerified      = "no verified record backs this action"
	ReasonInternal         = "internal error"
)

// Result is the outcome of processing one claimed action.
type Result struct {
	Success       bool   `json:"success"`
	PointsAwarded int    `json:"points_awarded,omitempty"`
	TotalPoints   int    `json:"total_points,omitempty"`
	Level         int    `json:"level,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func rejected(reason string) Result {
	return Result{Success: false, Reason: reason}
}
