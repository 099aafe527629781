package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowhr/flowhr/gamification"
	"github.com/flowhr/flowhr/models"
	"github.com/flowhr/flowhr/utils"
)

// TaskController manages work items and their completion.
type TaskController struct {
	db        *gorm.DB
	processor *gamification.Processor
}

// NewTaskController creates a new controller instance.
func NewTaskController(db *gorm.DB, processor *gamification.Processor) *TaskController {
	return &TaskController{db: db, processor: processor}
}

// Create assigns a task to an employee. Admin only.
func (t *TaskController) Create(ctx *gin.Context) {
	creatorID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		AssigneeID  uint   `json:"assignee_id" binding:"required"`
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var assignee models.Employee
	if err := t.db.Where("id = ? AND active = ?", req.AssigneeID, true).First(&assignee).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "assignee not found")
		return
	}

	task := models.Task{
		AssigneeID:  req.AssigneeID,
		CreatorID:   creatorID,
		Title:       utils.Sanitize(strings.TrimSpace(req.Title)),
		Description: utils.Sanitize(req.Description),
		Status:      models.TaskStatusOpen,
	}
	if err := t.db.Create(&task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to store task")
		return
	}

	utils.Success(ctx, task)
}

// List returns the caller's tasks, open first then newest.
func (t *TaskController) List(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx)

	query := t.db.Where("assignee_id = ?", employeeID)
	if status := strings.TrimSpace(ctx.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("status DESC, created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&tasks).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to retrieve tasks")
		return
	}

	utils.Success(ctx, gin.H{"items": tasks})
}

// Complete marks the caller's task done and fires the task_completed action.
// The status flip is what the processor verifies, so it commits first.
func (t *TaskController) Complete(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	taskID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid task id")
		return
	}

	var task models.Task
	if err := t.db.First(&task, taskID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40414, "task not found")
		return
	}
	if task.AssigneeID != employeeID {
		utils.Error(ctx, http.StatusForbidden, 40303, "task belongs to another employee")
		return
	}
	if task.Status == models.TaskStatusCompleted {
		utils.Error(ctx, http.StatusBadRequest, 40032, "task already completed")
		return
	}

	now := time.Now()
	task.Status = models.TaskStatusCompleted
	task.CompletedAt = &now
	if err := t.db.Save(&task).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to complete task")
		return
	}

	result := t.processor.Process(ctx.Request.Context(), employeeID, gamification.ActionTaskCompleted,
		gamification.ActionData{TaskID: taskID}, requestContext(ctx))

	utils.Success(ctx, gin.H{
		"task":         task,
		"gamification": result,
	})
}
