package gamification

import "time"

// Verifiable action types. Every type listed here has a backing record the
// processor can check before awarding points.
const (
	ActionCheckIn          = "check_in"
	ActionCheckOut         = "check_out"
	ActionMessageSent      = "message_sent"
	ActionAnnouncementRead = "announcement_read"
	ActionDocumentViewed   = "document_viewed"
	ActionTaskCompleted    = "task_completed"
	ActionProfileUpdated   = "profile_updated"
)

// ActionConfig is the fixed point value and cooldown for one action type.
type ActionConfig struct {
	Points   int
	Cooldown time.Duration
}

var actionCatalog = map[string]ActionConfig{
	ActionCheckIn:          {Points: 10, Cooldown: 24 * time.Hour},
	ActionCheckOut:         {Points: 10, Cooldown: 24 * time.Hour},
	ActionMessageSent:      {Points: 2, Cooldown: 5 * time.Minute},
	ActionAnnouncementRead: {Points: 3, Cooldown: time.Hour},
	ActionDocumentViewed:   {Points: 2, Cooldown: 30 * time.Minute},
	ActionTaskCompleted:    {Points: 15, Cooldown: time.Hour},
	ActionProfileUpdated:   {Points: 5, Cooldown: 24 * time.Hour},
}

// ActionConfigFor returns the static configuration for an action type.
func ActionConfigFor(actionType string) (ActionConfig, bool) {
	cfg, ok := actionCatalog[actionType]
	return cfg, ok
}

// forbiddenActions are navigation, UI and session events that must never earn
// points regardless of what the caller claims.
var forbiddenActions = map[string]struct{}{
	"page_load":     {},
	"page_view":     {},
	"click":         {},
	"scroll":        {},
	"focus":         {},
	"blur":          {},
	"navigation":    {},
	"login":         {},
	"logout":        {},
	"connect":       {},
	"disconnect":    {},
	"session_start": {},
	"session_end":   {},
	"heartbeat":     {},
}

// IsForbiddenAction reports whether the action type is on the hard denylist.
func IsForbiddenAction(actionType string) bool {
	_, ok := forbiddenActions[actionType]
	return ok
}

// levelBreakpoints is the fixed step table mapping total points to level.
var levelBreakpoints = []struct {
	Min   int
	Level int
}{
	{2500, 7},
	{1500, 6},
	{1000, 5},
	{600, 4},
	{300, 3},
	{100, 2},
}

// LevelForPoints is a pure step function of total points. Level is always
// recomputed from the total, never incremented in place.
func LevelForPoints(total int) int {
	for _, bp := range levelBreakpoints {
		if total >= bp.Min {
			return bp.Level
		}
	}
	return 1
}
