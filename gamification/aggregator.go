package gamification

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Stats is the employee history the badge criteria evaluate against.
type Stats struct {
	TotalPoints int
	StreakDays  int
	ActiveDays  int
	Counts      map[string]int
}

// Value resolves a requirement key: derived stats by name, everything else as
// an action-type count.
func (s Stats) Value(key string) int {
	switch key {
	case StatStreakDays:
		return s.StreakDays
	case StatTotalPoints:
		return s.TotalPoints
	case StatActiveDays:
		return s.ActiveDays
	default:
		return s.Counts[key]
	}
}

// CriterionProgress is one requirement of a badge tier with its current value.
type CriterionProgress struct {
	Stat     string `json:"stat"`
	Current  int    `json:"current"`
	Required int    `json:"required"`
}

// BadgeProgress describes how close an employee is to an unearned tier.
type BadgeProgress struct {
	BadgeID  string              `json:"badge_id"`
	Name     string              `json:"name"`
	Category string              `json:"category"`
	Tier     Tier                `json:"tier"`
	Points   int                 `json:"points"`
	Percent  float64             `json:"percent"`
	Criteria []CriterionProgress `json:"criteria"`
}

// ProgressReport is the outcome of one aggregator pass.
type ProgressReport struct {
	TotalPoints int           `json:"total_points"`
	Level       int           `json:"level"`
	StreakDays  int           `json:"streak_days"`
	BadgeCount  int           `json:"badge_count"`
	LeveledUp   bool          `json:"leveled_up"`
	NewBadges   []EarnedBadge `json:"new_badges"`
}

// Aggregator derives level, streak and badge eligibility from accumulated
// history. It is idempotent: re-running it never removes a badge row and never
// re-awards points for a tier already held.
type Aggregator struct {
	actions ActionLogStore
	points  PointsStore
	badges  BadgeStore
	notify  Notifier
	now     func() time.Time
	log     *zap.SugaredLogger
}

// NewAggregator wires the aggregator. notify may be nil; nil now means time.Now.
func NewAggregator(actions ActionLogStore, points PointsStore, badges BadgeStore, notify Notifier, log *zap.SugaredLogger, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{actions: actions, points: points, badges: badges, notify: notify, now: now, log: log}
}

// Recompute re-derives level and streak from history, awards any badge tiers
// whose criteria are now met, and reports newly earned badges for the UI.
func (a *Aggregator) Recompute(ctx context.Context, employeeID uint) (ProgressReport, error) {
	stats, err := a.collectStats(ctx, employeeID)
	if err != nil {
		return ProgressReport{}, err
	}

	snap, err := a.points.Snapshot(ctx, employeeID)
	if err != nil {
		return ProgressReport{}, err
	}
	prevLevel := snap.Level

	earned, err := a.badges.TiersEarned(ctx, employeeID)
	if err != nil {
		return ProgressReport{}, err
	}

	var newBadges []EarnedBadge
	for _, def := range badgeCatalog {
		held := earned[def.ID]
		for _, tier := range def.Tiers {
			if hasTier(held, tier.Tier) {
				continue
			}
			if !meetsAll(stats, tier.Requirements) {
				// Tiers are ordered; a missed threshold rules out the rest.
				break
			}
			badge := EarnedBadge{
				BadgeID:  def.ID,
				Name:     def.Name,
				TierName: tier.Name,
				Tier:     tier.Tier,
				Category: def.Category,
				Points:   tier.Points,
				EarnedAt: a.now(),
			}
			if err := a.badges.AwardTier(ctx, employeeID, badge); err != nil {
				return ProgressReport{}, err
			}
			// Badge points are added exactly once, at row creation; habitual
			// recomputation cannot double-award.
			snap, err = a.points.AddBadgeAward(ctx, employeeID, tier.Points)
			if err != nil {
				return ProgressReport{}, err
			}
			stats.TotalPoints = snap.TotalPoints
			newBadges = append(newBadges, badge)
		}
	}

	level := LevelForPoints(snap.TotalPoints)
	if err := a.points.ApplyDerived(ctx, employeeID, level, stats.StreakDays); err != nil {
		return ProgressReport{}, err
	}

	report := ProgressReport{
		TotalPoints: snap.TotalPoints,
		Level:       level,
		StreakDays:  stats.StreakDays,
		BadgeCount:  snap.BadgeCount,
		LeveledUp:   level > prevLevel && prevLevel > 0,
		NewBadges:   newBadges,
	}

	a.announce(ctx, employeeID, report)
	return report, nil
}

// NextBadges lists the next unearned tier of every badge family with
// current/required values, most complete first. Read-only.
func (a *Aggregator) NextBadges(ctx context.Context, employeeID uint) ([]BadgeProgress, error) {
	stats, err := a.collectStats(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	earned, err := a.badges.TiersEarned(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	var out []BadgeProgress
	for _, def := range badgeCatalog {
		held := earned[def.ID]
		for _, tier := range def.Tiers {
			if hasTier(held, tier.Tier) {
				continue
			}
			out = append(out, tierProgress(def, tier, stats))
			break // only the next tier per family
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Percent > out[j].Percent })
	return out, nil
}

func (a *Aggregator) collectStats(ctx context.Context, employeeID uint) (Stats, error) {
	counts, err := a.actions.CountsByType(ctx, employeeID)
	if err != nil {
		return Stats{}, err
	}
	dates, err := a.actions.ActionDates(ctx, employeeID)
	if err != nil {
		return Stats{}, err
	}
	snap, err := a.points.Snapshot(ctx, employeeID)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalPoints: snap.TotalPoints,
		StreakDays:  streakDays(dates, a.now()),
		ActiveDays:  len(dates),
		Counts:      counts,
	}, nil
}

func (a *Aggregator) announce(ctx context.Context, employeeID uint, report ProgressReport) {
	if a.notify == nil {
		return
	}
	for _, b := range report.NewBadges {
		a.notify.Notify(ctx, employeeID, "badge",
			fmt.Sprintf("%s (%s)", b.Name, b.Tier),
			fmt.Sprintf("You earned the %s %s badge (+%d points)", string(b.Tier), b.Name, b.Points))
	}
	if report.LeveledUp {
		a.notify.Notify(ctx, employeeID, "level_up",
			fmt.Sprintf("Level %d", report.Level),
			fmt.Sprintf("You reached level %d", report.Level))
	}
}

// streakDays counts consecutive active days ending today or yesterday, so a
// streak survives until a full calendar day is missed.
func streakDays(dates []string, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		seen[d] = struct{}{}
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if _, ok := seen[dateKey(day)]; !ok {
		day = day.AddDate(0, 0, -1)
		if _, ok := seen[dateKey(day)]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if _, ok := seen[dateKey(day)]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func hasTier(held []Tier, t Tier) bool {
	for _, h := range held {
		if h == t {
			return true
		}
	}
	return false
}

func meetsAll(stats Stats, requirements map[string]int) bool {
	for key, required := range requirements {
		if stats.Value(key) < required {
			return false
		}
	}
	return true
}

func tierProgress(def BadgeDef, tier BadgeTierDef, stats Stats) BadgeProgress {
	keys := make([]string, 0, len(tier.Requirements))
	for key := range tier.Requirements {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sum float64
	criteria := make([]CriterionProgress, 0, len(keys))
	for _, key := range keys {
		required := tier.Requirements[key]
		current := stats.Value(key)
		criteria = append(criteria, CriterionProgress{Stat: key, Current: current, Required: required})
		ratio := float64(current) / float64(required)
		if ratio > 1 {
			ratio = 1
		}
		sum += ratio
	}

	percent := 0.0
	if len(criteria) > 0 {
		percent = sum / float64(len(criteria)) * 100
	}

	return BadgeProgress{
		BadgeID:  def.ID,
		Name:     def.Name,
		Category: def.Category,
		Tier:     tier.Tier,
		Points:   tier.Points,
		Percent:  percent,
		Criteria: criteria,
	}
}
