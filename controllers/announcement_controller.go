package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowhr/flowhr/gamification"
	"github.com/flowhr/flowhr/models"
	"github.com/flowhr/flowhr/utils"
)

// AnnouncementController handles company announcements and their read receipts.
type AnnouncementController struct {
	db        *gorm.DB
	processor *gamification.Processor
}

// NewAnnouncementController creates a new controller instance.
func NewAnnouncementController(db *gorm.DB, processor *gamification.Processor) *AnnouncementController {
	return &AnnouncementController{db: db, processor: processor}
}

// Create publishes an announcement. Admin only; the HTML body is sanitized.
func (a *AnnouncementController) Create(ctx *gin.Context) {
	authorID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		Title    string `json:"title" binding:"required"`
		BodyHTML string `json:"body_html" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	announcement := models.Announcement{
		AuthorID: authorID,
		Title:    utils.Sanitize(strings.TrimSpace(req.Title)),
		BodyHTML: utils.Sanitize(req.BodyHTML),
	}
	if err := a.db.Create(&announcement).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to store announcement")
		return
	}

	utils.Success(ctx, announcement)
}

// List returns announcements newest first, with the caller's read state.
func (a *AnnouncementController) List(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx)

	var announcements []models.Announcement
	if err := a.db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&announcements).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to retrieve announcements")
		return
	}

	readSet := map[uint]bool{}
	if len(announcements) > 0 {
		ids := make([]uint, 0, len(announcements))
		for _, an := range announcements {
			ids = append(ids, an.ID)
		}
		var receipts []models.AnnouncementRead
		if err := a.db.Where("employee_id = ? AND announcement_id IN ?", employeeID, ids).Find(&receipts).Error; err == nil {
			for _, r := range receipts {
				readSet[r.AnnouncementID] = true
			}
		}
	}

	items := make([]gin.H, 0, len(announcements))
	for _, an := range announcements {
		items = append(items, gin.H{
			"announcement": an,
			"read":         readSet[an.ID],
		})
	}

	utils.Success(ctx, gin.H{"items": items})
}

// MarkRead records the read receipt and fires the announcement_read action.
// Re-reading is harmless: the receipt insert is idempotent and the processor
// rejects the duplicate award on its own.
func (a *AnnouncementController) MarkRead(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	announcementID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid announcement id")
		return
	}

	var announcement models.Announcement
	if err := a.db.First(&announcement, announcementID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40412, "announcement not found")
		return
	}

	receipt := models.AnnouncementRead{
		EmployeeID:     employeeID,
		AnnouncementID: announcementID,
		ReadAt:         time.Now(),
	}
	if err := a.db.Create(&receipt).Error; err != nil && !isDuplicateRow(err) {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to record read receipt")
		return
	}

	result := a.processor.Process(ctx.Request.Context(), employeeID, gamification.ActionAnnouncementRead,
		gamification.ActionData{AnnouncementID: announcementID}, requestContext(ctx))

	utils.Success(ctx, gin.H{"gamification": result})
}

func isDuplicateRow(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "Duplicate entry")
}
