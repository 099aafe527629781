package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowhr/flowhr/gamification"
	"github.com/flowhr/flowhr/models"
	"github.com/flowhr/flowhr/utils"
)

// TimeClockController handles the daily check-in / check-out punches. The
// TimeEntry row it writes is what the gamification processor later verifies,
// so the punch is recorded first and the award attempted second.
type TimeClockController struct {
	db        *gorm.DB
	processor *gamification.Processor
}

// NewTimeClockController creates a new controller instance.
func NewTimeClockController(db *gorm.DB, processor *gamification.Processor) *TimeClockController {
	return &TimeClockController{db: db, processor: processor}
}

// CheckIn records today's arrival time and feeds the processor.
func (t *TimeClockController) CheckIn(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	now := time.Now()
	entry, err := t.upsertEntry(employeeID, now, func(e *models.TimeEntry) bool {
		if e.CheckInTime != nil {
			return false
		}
		e.CheckInTime = &now
		return true
	})
	if err != nil {
		if errors.Is(err, errAlreadyPunched) {
			utils.Error(ctx, http.StatusBadRequest, 40030, "already checked in today")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to record check-in")
		return
	}

	result := t.processor.Process(ctx.Request.Context(), employeeID, gamification.ActionCheckIn,
		gamification.ActionData{}, requestContext(ctx))

	utils.Success(ctx, gin.H{
		"entry":        entry,
		"gamification": result,
	})
}

// CheckOut records today's departure time and feeds the processor.
func (t *TimeClockController) CheckOut(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	now := time.Now()
	entry, err := t.upsertEntry(employeeID, now, func(e *models.TimeEntry) bool {
		if e.CheckOutTime != nil {
			return false
		}
		e.CheckOutTime = &now
		return true
	})
	if err != nil {
		if errors.Is(err, errAlreadyPunched) {
			utils.Error(ctx, http.StatusBadRequest, 40031, "already checked out today")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to record check-out")
		return
	}

	result := t.processor.Process(ctx.Request.Context(), employeeID, gamification.ActionCheckOut,
		gamification.ActionData{}, requestContext(ctx))

	utils.Success(ctx, gin.H{
		"entry":        entry,
		"gamification": result,
	})
}

// Today returns the employee's time entry for the current day, if any.
func (t *TimeClockController) Today(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var entry models.TimeEntry
	err := t.db.Where("employee_id = ? AND entry_date = ?", employeeID, time.Now().Format("2006-01-02")).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Success(ctx, nil)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load time entry")
		return
	}

	utils.Success(ctx, entry)
}

var errAlreadyPunched = errors.New("already punched")

func (t *TimeClockController) upsertEntry(employeeID uint, now time.Time, punch func(*models.TimeEntry) bool) (*models.TimeEntry, error) {
	date := now.Format("2006-01-02")
	var entry models.TimeEntry

	err := t.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("employee_id = ? AND entry_date = ?", employeeID, date).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = models.TimeEntry{EmployeeID: employeeID, EntryDate: date}
		} else if err != nil {
			return err
		}

		if !punch(&entry) {
			return errAlreadyPunched
		}
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
