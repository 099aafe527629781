package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ActionData carries the reference the processor verifies for each action
// kind. Only the field matching the action type is consulted.
type ActionData struct {
	MessageID      uint   `json:"message_id,omitempty"`
	AnnouncementID uint   `json:"announcement_id,omitempty"`
	DocumentID     uint   `json:"document_id,omitempty"`
	TaskID         uint   `json:"task_id,omitempty"`
	QualityScore   int    `json:"quality_score,omitempty"`
	Note           string `json:"note,omitempty"`
}

// ProcessorStores bundles the external collaborators the processor reads and
// writes. Everything behind these interfaces is treated as an opaque service.
type ProcessorStores struct {
	Employees     EmployeeStore
	TimeClock     TimeClockStore
	Messages      MessageStore
	Announcements AnnouncementReadStore
	Documents     DocumentViewStore
	Tasks         TaskStore
	Actions       ActionLogStore
}

// Processor is the authoritative gate that turns a claimed action into awarded
// points, at most once per employee, action type and day, and only when an
// independent backing record proves the action happened.
type Processor struct {
	cache  *VerificationCache
	stores ProcessorStores
	now    func() time.Time
	log    *zap.SugaredLogger
}

// NewProcessor wires the processor to its cache and stores. The clock is
// injectable for tests; nil means time.Now.
func NewProcessor(cache *VerificationCache, stores ProcessorStores, log *zap.SugaredLogger, now func() time.Time) *Processor {
	if now == nil {
		now = time.Now
	}
	return &Processor{cache: cache, stores: stores, now: now, log: log}
}

// Process validates and awards one claimed action. Every failure is returned
// as a Result with a reason; nothing escapes as an error to the caller.
func (p *Processor) Process(ctx context.Context, employeeID uint, actionType string, data ActionData, req RequestContext) Result {
	if employeeID == 0 || actionType == "" {
		return rejected(ReasonMissingInput)
	}

	if d := p.cache.CanProcess(employeeID, actionType, req); !d.Allowed {
		return rejected(d.Reason)
	}

	ok, err := p.stores.Employees.Exists(ctx, employeeID)
	if err != nil {
		return p.internal("employee lookup", employeeID, actionType, err)
	}
	if !ok {
		return rejected(ReasonEmployeeNotFound)
	}

	cfg, ok := ActionConfigFor(actionType)
	if !ok {
		return rejected(ReasonUnknownAction)
	}

	now := p.now()
	today := dateKey(now)

	verified, err := p.verify(ctx, employeeID, actionType, today, data)
	if err != nil {
		return p.internal("verification", employeeID, actionType, err)
	}
	if !verified {
		return rejected(ReasonNotVerified)
	}

	// The cache already said yes, but it is per-process state: re-check the
	// durable log so a second tab or a cache reset cannot double-award.
	exists, err := p.stores.Actions.ExistsForDay(ctx, employeeID, actionType, today)
	if err != nil {
		return p.internal("duplicate check", employeeID, actionType, err)
	}
	if exists {
		return rejected(ReasonAlreadyToday)
	}

	quality := data.QualityScore
	if quality <= 0 || quality > 100 {
		quality = 100
	}
	details, _ := json.Marshal(data)

	snap, err := p.stores.Actions.Record(ctx, ActionRecord{
		EmployeeID: employeeID,
		ActionType: actionType,
		Date:       today,
		Details:    string(details),
		Points:     cfg.Points,
		Quality:    quality,
		At:         now,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateAction) {
			return rejected(ReasonAlreadyToday)
		}
		return p.internal("award", employeeID, actionType, err)
	}

	p.cache.Confirm(employeeID, actionType)

	if p.log != nil {
		p.log.Infow("action awarded",
			"employee_id", employeeID,
			"action", actionType,
			"points", cfg.Points,
			"total", snap.TotalPoints,
		)
	}

	return Result{
		Success:       true,
		PointsAwarded: cfg.Points,
		TotalPoints:   snap.TotalPoints,
		Level:         snap.Level,
	}
}

// verify checks the action's type-specific backing record. The UI hint alone
// is never trusted.
func (p *Processor) verify(ctx context.Context, employeeID uint, actionType, date string, data ActionData) (bool, error) {
	switch actionType {
	case ActionCheckIn:
		entry, err := p.stores.TimeClock.EntryForDay(ctx, employeeID, date)
		if err != nil {
			return false, err
		}
		return entry != nil && entry.CheckIn != nil, nil
	case ActionCheckOut:
		entry, err := p.stores.TimeClock.EntryForDay(ctx, employeeID, date)
		if err != nil {
			return false, err
		}
		return entry != nil && entry.CheckOut != nil, nil
	case ActionMessageSent:
		if data.MessageID == 0 {
			return false, nil
		}
		return p.stores.Messages.AuthoredBy(ctx, data.MessageID, employeeID)
	case ActionAnnouncementRead:
		if data.AnnouncementID == 0 {
			return false, nil
		}
		return p.stores.Announcements.HasRead(ctx, employeeID, data.AnnouncementID)
	case ActionDocumentViewed:
		if data.DocumentID == 0 {
			return false, nil
		}
		return p.stores.Documents.HasViewed(ctx, employeeID, data.DocumentID)
	case ActionTaskCompleted:
		if data.TaskID == 0 {
			return false, nil
		}
		return p.stores.Tasks.CompletedBy(ctx, data.TaskID, employeeID)
	case ActionProfileUpdated:
		// The profile mutation itself is the backing record; the controller
		// only fires this hook after a successful save.
		return true, nil
	default:
		return false, nil
	}
}

func (p *Processor) internal(stage string, employeeID uint, actionType string, err error) Result {
	if p.log != nil {
		p.log.Errorw("action processing failed",
			"stage", stage,
			"employee_id", employeeID,
			"action", actionType,
			"err", err,
		)
	}
	return rejected(ReasonInternal)
}
