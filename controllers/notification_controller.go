package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowhr/flowhr/models"
	"github.com/flowhr/flowhr/utils"
)

// NotificationController lists and acknowledges in-app notifications.
type NotificationController struct {
	db *gorm.DB
}

// NewNotificationController creates a new controller instance.
func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// List returns the caller's notifications, unread first then newest.
func (n *NotificationController) List(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx)

	query := n.db.Where("employee_id = ?", employeeID)
	if strings.EqualFold(ctx.Query("unread"), "true") {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("read ASC, created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&notifications).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to retrieve notifications")
		return
	}

	utils.Success(ctx, gin.H{"items": notifications})
}

// MarkRead flags one notification as read. The id is the public UUID.
func (n *NotificationController) MarkRead(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	publicID := strings.TrimSpace(ctx.Param("id"))
	if publicID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid notification id")
		return
	}

	res := n.db.Model(&models.Notification{}).
		Where("public_id = ? AND employee_id = ?", publicID, employeeID).
		Update("read", true)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to update notification")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40415, "notification not found")
		return
	}

	utils.Success(ctx, gin.H{"message": "notification read"})
}
