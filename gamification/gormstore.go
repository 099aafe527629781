package gamification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/flowhr/flowhr/models"
	"github.com/flowhr/flowhr/utils"
)

// GormStore implements every engine store interface over the application
// database. One instance backs the processor, the aggregator and the HTTP
// layer.
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore wraps a gorm DB. nil now means time.Now.
func NewGormStore(db *gorm.DB, now func() time.Time) *GormStore {
	if now == nil {
		now = time.Now
	}
	return &GormStore{db: db, now: now}
}

func (s *GormStore) Exists(ctx context.Context, employeeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ? AND active = ?", employeeID, true).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) EntryForDay(ctx context.Context, employeeID uint, date string) (*TimeEntry, error) {
	var row models.TimeEntry
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND entry_date = ?", employeeID, date).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &TimeEntry{CheckIn: row.CheckInTime, CheckOut: row.CheckOutTime}, nil
}

func (s *GormStore) AuthoredBy(ctx context.Context, messageID, employeeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND sender_id = ?", messageID, employeeID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) HasRead(ctx context.Context, employeeID, announcementID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.AnnouncementRead{}).
		Where("employee_id = ? AND announcement_id = ?", employeeID, announcementID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) HasViewed(ctx context.Context, employeeID, documentID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.DocumentView{}).
		Where("employee_id = ? AND document_id = ?", employeeID, documentID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CompletedBy(ctx context.Context, taskID, employeeID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND assignee_id = ? AND status = ? AND completed_at IS NOT NULL",
			taskID, employeeID, models.TaskStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) ExistsForDay(ctx context.Context, employeeID uint, actionType, date string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ActionLog{}).
		Where("employee_id = ? AND action_type = ? AND action_date = ?", employeeID, actionType, date).
		Count(&count).Error
	return count > 0, err
}

// Record inserts the action log row and applies the points in one
// transaction. The composite unique index turns concurrent duplicates into
// ErrDuplicateAction instead of double awards.
func (s *GormStore) Record(ctx context.Context, rec ActionRecord) (PointsSnapshot, error) {
	var snap PointsSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.ActionLog{
			EmployeeID:   rec.EmployeeID,
			ActionType:   rec.ActionType,
			ActionDate:   rec.Date,
			Details:      rec.Details,
			PointsEarned: rec.Points,
			QualityScore: rec.Quality,
			CreatedAt:    rec.At,
		}
		if err := tx.Create(&row).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicateAction
			}
			return err
		}

		points, err := s.pointsForUpdate(tx, rec.EmployeeID)
		if err != nil {
			return err
		}
		applyPeriodRollover(points, rec.At)
		points.TotalPoints += rec.Points
		points.WeekPoints += rec.Points
		points.MonthPoints += rec.Points
		points.Level = LevelForPoints(points.TotalPoints)

		if err := tx.Save(points).Error; err != nil {
			return err
		}
		snap = toSnapshot(points)
		return nil
	})
	return snap, err
}

func (s *GormStore) CountsByType(ctx context.Context, employeeID uint) (map[string]int, error) {
	type countRow struct {
		ActionType string
		N          int
	}
	var rows []countRow
	err := s.db.WithContext(ctx).Model(&models.ActionLog{}).
		Select("action_type, COUNT(*) AS n").
		Where("employee_id = ?", employeeID).
		Group("action_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.ActionType] = r.N
	}
	return counts, nil
}

func (s *GormStore) ActionDates(ctx context.Context, employeeID uint) ([]string, error) {
	var dates []string
	err := s.db.WithContext(ctx).Model(&models.ActionLog{}).
		Distinct("action_date").
		Where("employee_id = ?", employeeID).
		Order("action_date DESC").
		Pluck("action_date", &dates).Error
	return dates, err
}

func (s *GormStore) Snapshot(ctx context.Context, employeeID uint) (PointsSnapshot, error) {
	var row models.EmployeePoints
	err := s.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PointsSnapshot{}, nil
	}
	if err != nil {
		return PointsSnapshot{}, err
	}
	return toSnapshot(&row), nil
}

func (s *GormStore) ApplyDerived(ctx context.Context, employeeID uint, level, streak int) error {
	return s.db.WithContext(ctx).Model(&models.EmployeePoints{}).
		Where("employee_id = ?", employeeID).
		Updates(map[string]interface{}{"level": level, "streak_days": streak, "updated_at": s.now()}).Error
}

func (s *GormStore) AddBadgeAward(ctx context.Context, employeeID uint, badgePoints int) (PointsSnapshot, error) {
	var snap PointsSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		points, err := s.pointsForUpdate(tx, employeeID)
		if err != nil {
			return err
		}
		now := s.now()
		applyPeriodRollover(points, now)
		points.TotalPoints += badgePoints
		points.WeekPoints += badgePoints
		points.MonthPoints += badgePoints
		points.BadgeCount++
		points.Level = LevelForPoints(points.TotalPoints)
		if err := tx.Save(points).Error; err != nil {
			return err
		}
		snap = toSnapshot(points)
		return nil
	})
	return snap, err
}

func (s *GormStore) TiersEarned(ctx context.Context, employeeID uint) (map[string][]Tier, error) {
	var rows []models.Badge
	err := s.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	earned := map[string][]Tier{}
	for _, r := range rows {
		earned[r.BadgeID] = append(earned[r.BadgeID], Tier(r.Tier))
	}
	return earned, nil
}

// AwardTier inserts the badge row and deactivates lower tiers of the family.
// Lower-tier rows remain as history.
func (s *GormStore) AwardTier(ctx context.Context, employeeID uint, badge EarnedBadge) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.Badge{
			EmployeeID: employeeID,
			BadgeID:    badge.BadgeID,
			Tier:       string(badge.Tier),
			Category:   badge.Category,
			Points:     badge.Points,
			Active:     true,
			EarnedAt:   badge.EarnedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			if isDuplicateKey(err) {
				// Another pass already awarded this tier; keep idempotent.
				return nil
			}
			return err
		}
		return tx.Model(&models.Badge{}).
			Where("employee_id = ? AND badge_id = ? AND tier <> ?", employeeID, badge.BadgeID, string(badge.Tier)).
			Update("active", false).Error
	})
}

// Notify writes the in-app notification row and mirrors it to Slack when a
// webhook is configured. Best-effort on both paths.
func (s *GormStore) Notify(ctx context.Context, employeeID uint, kind, title, body string) {
	row := models.Notification{
		EmployeeID: employeeID,
		Kind:       kind,
		Title:      title,
		Body:       body,
		CreatedAt:  s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("notification insert failed employee=%d kind=%s: %v", employeeID, kind, err)
	}
	utils.NotifySlack("employee %d: %s — %s", employeeID, title, body)
}

// Leaderboard returns the top employees by total points with names joined in.
func (s *GormStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []LeaderboardEntry
	err := s.db.WithContext(ctx).Model(&models.EmployeePoints{}).
		Select("employee_points.employee_id, employees.name, employees.department, employee_points.total_points, employee_points.level, employee_points.streak_days, employee_points.badge_count").
		Joins("JOIN employees ON employees.id = employee_points.employee_id AND employees.active = 1").
		Order("employee_points.total_points DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// LeaderboardEntry is one row of the points leaderboard.
type LeaderboardEntry struct {
	EmployeeID  uint   `json:"employee_id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	TotalPoints int    `json:"total_points"`
	Level       int    `json:"level"`
	StreakDays  int    `json:"streak_days"`
	BadgeCount  int    `json:"badge_count"`
}

func (s *GormStore) pointsForUpdate(tx *gorm.DB, employeeID uint) (*models.EmployeePoints, error) {
	var points models.EmployeePoints
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).First(&points).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := s.now()
		points = models.EmployeePoints{
			EmployeeID: employeeID,
			Level:      1,
			WeekKey:    weekKey(now),
			MonthKey:   monthKey(now),
			CreatedAt:  now,
		}
		if err := tx.Create(&points).Error; err != nil {
			return nil, err
		}
		return &points, nil
	}
	if err != nil {
		return nil, err
	}
	return &points, nil
}

// applyPeriodRollover resets the weekly and monthly counters when the award
// lands in a new ISO week or month.
func applyPeriodRollover(points *models.EmployeePoints, at time.Time) {
	if wk := weekKey(at); points.WeekKey != wk {
		points.WeekKey = wk
		points.WeekPoints = 0
	}
	if mk := monthKey(at); points.MonthKey != mk {
		points.MonthKey = mk
		points.MonthPoints = 0
	}
}

func toSnapshot(p *models.EmployeePoints) PointsSnapshot {
	return PointsSnapshot{
		TotalPoints: p.TotalPoints,
		WeekPoints:  p.WeekPoints,
		MonthPoints: p.MonthPoints,
		Level:       p.Level,
		StreakDays:  p.StreakDays,
		BadgeCount:  p.BadgeCount,
	}
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
