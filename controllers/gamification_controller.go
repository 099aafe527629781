package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/flowhr/flowhr/gamification"
	"github.com/flowhr/flowhr/models"
	"github.com/flowhr/flowhr/utils"
)

const leaderboardCacheKey = "cache:gamification:leaderboard"

// GamificationController exposes the engine: action submission, progress,
// badges and the leaderboard.
type GamificationController struct {
	db         *gorm.DB
	processor  *gamification.Processor
	aggregator *gamification.Aggregator
	store      *gamification.GormStore
	cache      *gamification.VerificationCache
}

// NewGamificationController creates a new controller instance.
func NewGamificationController(db *gorm.DB, processor *gamification.Processor, aggregator *gamification.Aggregator, store *gamification.GormStore, cache *gamification.VerificationCache) *GamificationController {
	return &GamificationController{db: db, processor: processor, aggregator: aggregator, store: store, cache: cache}
}

// ProcessAction is the generic submission endpoint for UI action hints. The
// response is 200 whether or not points were awarded; Result.Reason tells the
// UI what happened so routine rejections can be dropped silently.
func (g *GamificationController) ProcessAction(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		ActionType string                  `json:"action_type" binding:"required"`
		Data       gamification.ActionData `json:"data"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	result := g.processor.Process(ctx.Request.Context(), employeeID, strings.TrimSpace(req.ActionType),
		req.Data, requestContext(ctx))

	utils.Success(ctx, result)
}

// Me returns the caller's points snapshot.
func (g *GamificationController) Me(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	snap, err := g.store.Snapshot(ctx.Request.Context(), employeeID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load progress")
		return
	}

	utils.Success(ctx, snap)
}

// Badges returns the caller's earned badge rows, newest first. Inactive rows
// are the history of lower tiers.
func (g *GamificationController) Badges(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var badges []models.Badge
	if err := g.db.Where("employee_id = ?", employeeID).Order("earned_at DESC").Find(&badges).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to retrieve badges")
		return
	}

	utils.Success(ctx, gin.H{"items": badges})
}

// NextBadges returns the closest unearned tier per badge family, most
// complete first.
func (g *GamificationController) NextBadges(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	progress, err := g.aggregator.NextBadges(ctx.Request.Context(), employeeID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to compute badge progress")
		return
	}

	utils.Success(ctx, gin.H{"items": progress})
}

// Recompute runs a full aggregator pass for the caller and returns the
// resulting report, including any newly earned badges.
func (g *GamificationController) Recompute(ctx *gin.Context) {
	employeeID, ok := getEmployeeID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	report, err := g.aggregator.Recompute(ctx.Request.Context(), employeeID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to recompute progress")
		return
	}

	utils.Success(ctx, report)
}

// Leaderboard returns the top employees by total points, cached in Redis for
// a minute to keep the hot path off MySQL.
func (g *GamificationController) Leaderboard(ctx *gin.Context) {
	limit := 20
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	cacheKey := leaderboardCacheKey + ":" + strconv.Itoa(limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached []gamification.LeaderboardEntry
		if json.Unmarshal(b, &cached) == nil {
			utils.Success(ctx, gin.H{"items": cached})
			return
		}
	}

	entries, err := g.store.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to build leaderboard")
		return
	}

	utils.CacheSetJSON(cacheKey, entries, time.Minute)
	utils.Success(ctx, gin.H{"items": entries})
}

// Debug returns the recent verification-cache decisions for one employee.
// Admin only; employee_id defaults to the caller.
func (g *GamificationController) Debug(ctx *gin.Context) {
	employeeID, _ := getEmployeeID(ctx)
	if v := strings.TrimSpace(ctx.Query("employee_id")); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil && n > 0 {
			employeeID = uint(n)
		}
	}
	if employeeID == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid employee id")
		return
	}

	utils.Success(ctx, gin.H{
		"employee_id": employeeID,
		"decisions":   g.cache.DebugLog(employeeID),
	})
}
