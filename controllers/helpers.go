package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flowhr/flowhr/gamification"
	"github.com/flowhr/flowhr/middleware"
)

func getEmployeeID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextEmployeeIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func isAdmin(ctx *gin.Context) bool {
	return ctx.GetBool(middleware.ContextIsAdminKey)
}

func parsePagination(ctx *gin.Context) (int, int) {
	page, pageSize := 1, 20
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("page_size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(ctx.Param(name)), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func requestContext(ctx *gin.Context) gamification.RequestContext {
	return gamification.RequestContext{
		UserAgent: ctx.GetHeader("User-Agent"),
		ClientIP:  ctx.ClientIP(),
	}
}
