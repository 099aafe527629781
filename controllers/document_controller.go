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

// DocumentController manages shared-document metadata and view receipts.
type DocumentController struct {
	db        *gorm.DB
	processor *gamification.Processor
}

// NewDocumentController creates a new controller instance.
func NewDocumentController(db *gorm.DB, processor *gamification.Processor) *DocumentController {
	return &DocumentController{db: db, processor: processor}
}

// Create registers a document. Admin only.
func (d *DocumentController) Create(ctx *gin.Context) {
	uploaderID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		FileURL     string `json:"file_url" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	document := models.Document{
		UploaderID:  uploaderID,
		Title:       utils.Sanitize(strings.TrimSpace(req.Title)),
		Description: utils.Sanitize(req.Description),
		FileURL:     strings.TrimSpace(req.FileURL),
	}
	if err := d.db.Create(&document).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to store document")
		return
	}

	utils.Success(ctx, document)
}

// List returns documents newest first.
func (d *DocumentController) List(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx)

	var documents []models.Document
	if err := d.db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&documents).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to retrieve documents")
		return
	}

	utils.Success(ctx, gin.H{"items": documents})
}

// View records a view receipt and fires the document_viewed action.
func (d *DocumentController) View(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	documentID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid document id")
		return
	}

	var document models.Document
	if err := d.db.First(&document, documentID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40413, "document not found")
		return
	}

	receipt := models.DocumentView{
		EmployeeID: employeeID,
		DocumentID: documentID,
		ViewedAt:   time.Now(),
	}
	if err := d.db.Create(&receipt).Error; err != nil && !isDuplicateRow(err) {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to record view")
		return
	}

	result := d.processor.Process(ctx.Request.Context(), employeeID, gamification.ActionDocumentViewed,
		gamification.ActionData{DocumentID: documentID}, requestContext(ctx))

	utils.Success(ctx, gin.H{
		"document":     document,
		"gamification": result,
	})
}
