package gamification

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateAction is returned by ActionLogStore.Record when an action of
// the same type already exists for the employee and day. The unique index
// makes this the authoritative duplicate check.
var ErrDuplicateAction = errors.New("action already recorded for this day")

// TimeEntry is the time-clock view the processor verifies against.
type TimeEntry struct {
	CheckIn  *time.Time
	CheckOut *time.Time
}

// ActionRecord is one award ready to be persisted.
type ActionRecord struct {
	EmployeeID uint
	ActionType string
	Date       string // YYYY-MM-DD
	Details    string
	Points     int
	Quality    int
	At         time.Time
}

// PointsSnapshot is the employee's aggregate after a store operation.
type PointsSnapshot struct {
	TotalPoints int `json:"total_points"`
	WeekPoints  int `json:"week_points"`
	MonthPoints int `json:"month_points"`
	Level       int `json:"level"`
	StreakDays  int `json:"streak_days"`
	BadgeCount  int `json:"badge_count"`
}

// EarnedBadge describes one newly awarded badge tier.
type EarnedBadge struct {
	BadgeID  string    `json:"badge_id"`
	Name     string    `json:"name"`
	TierName string    `json:"tier_name"`
	Tier     Tier      `json:"tier"`
	Category string    `json:"category"`
	Points   int       `json:"points"`
	EarnedAt time.Time `json:"earned_at"`
}

// EmployeeStore resolves employee ids.
type EmployeeStore interface {
	// Exists reports whether the id maps to an active employee.
	Exists(ctx context.Context, employeeID uint) (bool, error)
}

// TimeClockStore looks up the day's time-clock entry.
type TimeClockStore interface {
	// EntryForDay returns nil when no entry exists for the date.
	EntryForDay(ctx context.Context, employeeID uint, date string) (*TimeEntry, error)
}

// MessageStore verifies message authorship.
type MessageStore interface {
	AuthoredBy(ctx context.Context, messageID, employeeID uint) (bool, error)
}

// AnnouncementReadStore verifies read receipts.
type AnnouncementReadStore interface {
	HasRead(ctx context.Context, employeeID, announcementID uint) (bool, error)
}

// DocumentViewStore verifies view receipts.
type DocumentViewStore interface {
	HasViewed(ctx context.Context, employeeID, documentID uint) (bool, error)
}

// TaskStore verifies task completion.
type TaskStore interface {
	CompletedBy(ctx context.Context, taskID, employeeID uint) (bool, error)
}

// ActionLogStore is the append-only award log plus the historical statistics
// the aggregator derives badges from.
type ActionLogStore interface {
	ExistsForDay(ctx context.Context, employeeID uint, actionType, date string) (bool, error)
	// Record inserts the log row and applies the points atomically; both
	// happen or neither does. Returns ErrDuplicateAction on the unique index.
	Record(ctx context.Context, rec ActionRecord) (PointsSnapshot, error)
	CountsByType(ctx context.Context, employeeID uint) (map[string]int, error)
	// ActionDates returns the distinct days with at least one award, most
	// recent first.
	ActionDates(ctx context.Context, employeeID uint) ([]string, error)
}

// PointsStore reads and maintains the per-employee aggregate row.
type PointsStore interface {
	Snapshot(ctx context.Context, employeeID uint) (PointsSnapshot, error)
	// ApplyDerived persists recomputed level and streak.
	ApplyDerived(ctx context.Context, employeeID uint, level, streak int) error
	// AddBadgeAward adds the badge's points, bumps the badge count and
	// recomputes the level, returning the new snapshot.
	AddBadgeAward(ctx context.Context, employeeID uint, points int) (PointsSnapshot, error)
}

// BadgeStore persists earned badge tiers.
type BadgeStore interface {
	// TiersEarned maps badge id to the tiers already held.
	TiersEarned(ctx context.Context, employeeID uint) (map[string][]Tier, error)
	// AwardTier inserts the new tier row and moves the active flag off lower
	// tiers of the same family. Rows are never deleted.
	AwardTier(ctx context.Context, employeeID uint, badge EarnedBadge) error
}

// Notifier delivers fire-and-forget progress notifications. Failures must not
// affect the award path.
type Notifier interface {
	Notify(ctx context.Context, employeeID uint, kind, title, body string)
}
