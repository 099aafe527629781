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

// EmployeeController manages the employee directory.
type EmployeeController struct {
	db        *gorm.DB
	processor *gamification.Processor
}

// NewEmployeeController creates a new controller instance.
func NewEmployeeController(db *gorm.DB, processor *gamification.Processor) *EmployeeController {
	return &EmployeeController{db: db, processor: processor}
}

// Create provisions a new employee account. Admin only.
func (e *EmployeeController) Create(ctx *gin.Context) {
	type request struct {
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Password   string `json:"password" binding:"required,min=8"`
		Department string `json:"department"`
		Position   string `json:"position"`
		IsAdmin    bool   `json:"is_admin"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to hash password")
		return
	}

	employee := models.Employee{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Department:   strings.TrimSpace(req.Department),
		Position:     strings.TrimSpace(req.Position),
		IsAdmin:      req.IsAdmin,
		Active:       true,
	}

	if err := e.db.Create(&employee).Error; err != nil {
		utils.Error(ctx, http.StatusConflict, 40910, "email already registered")
		return
	}

	utils.Success(ctx, employee)
}

// List returns active employees, paginated.
func (e *EmployeeController) List(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx)

	query := e.db.Model(&models.Employee{}).Where("active = ?", true)
	if dept := strings.TrimSpace(ctx.Query("department")); dept != "" {
		query = query.Where("department = ?", dept)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to count employees")
		return
	}

	var employees []models.Employee
	if err := query.Order("name ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&employees).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to retrieve employees")
		return
	}

	utils.Success(ctx, gin.H{
		"items": employees,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// Get returns one employee by numeric ID.
func (e *EmployeeController) Get(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid employee id")
		return
	}

	var employee models.Employee
	if err := e.db.First(&employee, id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "employee not found")
		return
	}

	utils.Success(ctx, employee)
}

// Update patches the employee's own profile fields. A successful save fires
// the profile_updated action through the processor; its outcome rides along in
// the response but never fails the update itself.
func (e *EmployeeController) Update(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid employee id")
		return
	}

	callerID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if callerID != id && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40302, "cannot modify another employee")
		return
	}

	type request struct {
		Name       *string `json:"name"`
		Department *string `json:"department"`
		Position   *string `json:"position"`
		Password   *string `json:"password"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var employee models.Employee
	if err := e.db.First(&employee, id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "employee not found")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Department != nil {
		employee.Department = strings.TrimSpace(*req.Department)
	}
	if req.Position != nil {
		employee.Position = strings.TrimSpace(*req.Position)
	}
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 8 {
			utils.Error(ctx, http.StatusBadRequest, 40005, "password too short")
			return
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to hash password")
			return
		}
		employee.PasswordHash = hash
	}

	if err := e.db.Save(&employee).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to update employee")
		return
	}

	result := e.processor.Process(ctx.Request.Context(), callerID, gamification.ActionProfileUpdated,
		gamification.ActionData{}, requestContext(ctx))

	utils.Success(ctx, gin.H{
		"employee":     employee,
		"gamification": result,
	})
}

// Deactivate soft-deletes an employee. Admin only; history is preserved.
func (e *EmployeeController) Deactivate(ctx *gin.Context) {
	id, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid employee id")
		return
	}

	var employee models.Employee
	if err := e.db.First(&employee, id).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "employee not found")
		return
	}

	now := time.Now()
	employee.Active = false
	employee.DeactivatedAt = &now
	if err := e.db.Save(&employee).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to deactivate employee")
		return
	}

	utils.Success(ctx, gin.H{"message": "employee deactivated"})
}
