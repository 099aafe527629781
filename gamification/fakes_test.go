package gamification

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// fakeStores is an in-memory implementation of every engine store interface,
// used so processor and aggregator tests run without a database.
type fakeStores struct {
	employees map[uint]bool
	entries   map[string]*TimeEntry // employeeID|date
	messages  map[uint]uint         // messageID -> sender
	reads     map[string]bool       // employeeID|announcementID
	views     map[string]bool       // employeeID|documentID
	tasksDone map[string]bool       // taskID|employeeID
	logs      []ActionRecord
	points    map[uint]*PointsSnapshot
	badges    map[uint][]EarnedBadge
	notices   []string
	failWith  error
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		employees: map[uint]bool{},
		entries:   map[string]*TimeEntry{},
		messages:  map[uint]uint{},
		reads:     map[string]bool{},
		views:     map[string]bool{},
		tasksDone: map[string]bool{},
		points:    map[uint]*PointsSnapshot{},
		badges:    map[uint][]EarnedBadge{},
	}
}

func (f *fakeStores) processorStores() ProcessorStores {
	return ProcessorStores{
		Employees:     f,
		TimeClock:     f,
		Messages:      f,
		Announcements: f,
		Documents:     f,
		Tasks:         f,
		Actions:       f,
	}
}

func key2(a, b interface{}) string { return fmt.Sprintf("%v|%v", a, b) }

func (f *fakeStores) Exists(_ context.Context, employeeID uint) (bool, error) {
	return f.employees[employeeID], f.failWith
}

func (f *fakeStores) EntryForDay(_ context.Context, employeeID uint, date string) (*TimeEntry, error) {
	return f.entries[key2(employeeID, date)], f.failWith
}

func (f *fakeStores) AuthoredBy(_ context.Context, messageID, employeeID uint) (bool, error) {
	return f.messages[messageID] == employeeID, f.failWith
}

func (f *fakeStores) HasRead(_ context.Context, employeeID, announcementID uint) (bool, error) {
	return f.reads[key2(employeeID, announcementID)], f.failWith
}

func (f *fakeStores) HasViewed(_ context.Context, employeeID, documentID uint) (bool, error) {
	return f.views[key2(employeeID, documentID)], f.failWith
}

func (f *fakeStores) CompletedBy(_ context.Context, taskID, employeeID uint) (bool, error) {
	return f.tasksDone[key2(taskID, employeeID)], f.failWith
}

func (f *fakeStores) ExistsForDay(_ context.Context, employeeID uint, actionType, date string) (bool, error) {
	for _, rec := range f.logs {
		if rec.EmployeeID == employeeID && rec.ActionType == actionType && rec.Date == date {
			return true, f.failWith
		}
	}
	return false, f.failWith
}

func (f *fakeStores) Record(ctx context.Context, rec ActionRecord) (PointsSnapshot, error) {
	if f.failWith != nil {
		return PointsSnapshot{}, f.failWith
	}
	if dup, _ := f.ExistsForDay(ctx, rec.EmployeeID, rec.ActionType, rec.Date); dup {
		return PointsSnapshot{}, ErrDuplicateAction
	}
	f.logs = append(f.logs, rec)
	p := f.pointsFor(rec.EmployeeID)
	p.TotalPoints += rec.Points
	p.WeekPoints += rec.Points
	p.MonthPoints += rec.Points
	p.Level = LevelForPoints(p.TotalPoints)
	return *p, nil
}

func (f *fakeStores) CountsByType(_ context.Context, employeeID uint) (map[string]int, error) {
	counts := map[string]int{}
	for _, rec := range f.logs {
		if rec.EmployeeID == employeeID {
			counts[rec.ActionType]++
		}
	}
	return counts, f.failWith
}

func (f *fakeStores) ActionDates(_ context.Context, employeeID uint) ([]string, error) {
	seen := map[string]struct{}{}
	for _, rec := range f.logs {
		if rec.EmployeeID == employeeID {
			seen[rec.Date] = struct{}{}
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, f.failWith
}

func (f *fakeStores) Snapshot(_ context.Context, employeeID uint) (PointsSnapshot, error) {
	if f.failWith != nil {
		return PointsSnapshot{}, f.failWith
	}
	if p, ok := f.points[employeeID]; ok {
		return *p, nil
	}
	return PointsSnapshot{}, nil
}

func (f *fakeStores) ApplyDerived(_ context.Context, employeeID uint, level, streak int) error {
	p := f.pointsFor(employeeID)
	p.Level = level
	p.StreakDays = streak
	return f.failWith
}

func (f *fakeStores) AddBadgeAward(_ context.Context, employeeID uint, points int) (PointsSnapshot, error) {
	if f.failWith != nil {
		return PointsSnapshot{}, f.failWith
	}
	p := f.pointsFor(employeeID)
	p.TotalPoints += points
	p.WeekPoints += points
	p.MonthPoints += points
	p.BadgeCount++
	p.Level = LevelForPoints(p.TotalPoints)
	return *p, nil
}

func (f *fakeStores) TiersEarned(_ context.Context, employeeID uint) (map[string][]Tier, error) {
	earned := map[string][]Tier{}
	for _, b := range f.badges[employeeID] {
		earned[b.BadgeID] = append(earned[b.BadgeID], b.Tier)
	}
	return earned, f.failWith
}

func (f *fakeStores) AwardTier(_ context.Context, employeeID uint, badge EarnedBadge) error {
	f.badges[employeeID] = append(f.badges[employeeID], badge)
	return f.failWith
}

func (f *fakeStores) Notify(_ context.Context, employeeID uint, kind, title, _ string) {
	f.notices = append(f.notices, fmt.Sprintf("%d:%s:%s", employeeID, kind, title))
}

func (f *fakeStores) pointsFor(employeeID uint) *PointsSnapshot {
	p, ok := f.points[employeeID]
	if !ok {
		p = &PointsSnapshot{Level: 1}
		f.points[employeeID] = p
	}
	return p
}

// fakeClock is a controllable time source shared by cache and processor tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
func (c *fakeClock) AdvanceDays(days int)    { c.t = c.t.AddDate(0, 0, days) }
