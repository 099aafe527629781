package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowhr/flowhr/gamification"
	"github.com/flowhr/flowhr/models"
	"github.com/flowhr/flowhr/utils"
)

// MessageController handles direct messages between employees.
type MessageController struct {
	db        *gorm.DB
	processor *gamification.Processor
}

// NewMessageController creates a new controller instance.
func NewMessageController(db *gorm.DB, processor *gamification.Processor) *MessageController {
	return &MessageController{db: db, processor: processor}
}

// Send stores a message and fires the message_sent action. The award can only
// verify against a persisted row, so the insert happens first.
func (m *MessageController) Send(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		RecipientID uint   `json:"recipient_id" binding:"required"`
		Body        string `json:"body" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	body := utils.Sanitize(strings.TrimSpace(req.Body))
	if body == "" {
		utils.Error(ctx, http.StatusBadRequest, 40006, "message body is empty")
		return
	}

	var recipient models.Employee
	if err := m.db.Where("id = ? AND active = ?", req.RecipientID, true).First(&recipient).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "recipient not found")
		return
	}

	message := models.Message{
		SenderID:    employeeID,
		RecipientID: req.RecipientID,
		Body:        body,
	}
	if err := m.db.Create(&message).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to store message")
		return
	}

	result := m.processor.Process(ctx.Request.Context(), employeeID, gamification.ActionMessageSent,
		gamification.ActionData{MessageID: message.ID}, requestContext(ctx))

	utils.Success(ctx, gin.H{
		"message":      message,
		"gamification": result,
	})
}

// List returns messages sent to or from the caller, newest first.
func (m *MessageController) List(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx)

	var messages []models.Message
	err := m.db.Where("sender_id = ? OR recipient_id = ?", employeeID, employeeID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&messages).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to retrieve messages")
		return
	}

	utils.Success(ctx, gin.H{"items": messages})
}
