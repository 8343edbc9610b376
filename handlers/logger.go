package handlers

import (
	"strconv"

	"homeserve/middleware"
	"homeserve/models"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request logger set by middleware.RequestLogger.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// bindJSON decodes the body into dst and reports a validation error on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		getLogger(c).Debug("invalid request body", zap.Error(err))
		utils.RespondError(c, utils.NewValidationError(utils.TranslateValidationError(err)))
		return false
	}
	return true
}

// principal returns the authenticated caller. Routes using it sit behind the JWT middleware.
func principal(c *gin.Context) models.Principal {
	p, _ := middleware.GetPrincipal(c)
	return p
}

// pageRequest reads ?page and ?limit. Missing or malformed values fall back to defaults.
func pageRequest(c *gin.Context) models.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return models.PageRequest{Page: page, Limit: limit}
}
