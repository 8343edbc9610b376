package utils

import (
	"net/http"

	"homeserve/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const genericErrorMessage = "Something went wrong!"

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error string    `json:"error"`
	Code  ErrorKind `json:"code,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: genericErrorMessage})
			}
		}()
		c.Next()
	}
}

// RespondError writes err as JSON using the status of its kind.
// Errors that are not AppErrors are masked in production.
func RespondError(c *gin.Context, err error) {
	logger := requestLogger(c)

	appErr, ok := AsAppError(err)
	if !ok {
		logger.Error("Unexpected error", zap.Error(err))
		msg := genericErrorMessage
		if !config.IsProduction() {
			msg = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
		return
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		logger.Error(appErr.Message, zap.String("kind", string(appErr.Kind)), zap.Error(appErr.Err))
	} else {
		logger.Warn(appErr.Message, zap.String("kind", string(appErr.Kind)))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: appErr.Message, Code: appErr.Kind})
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string) {
	requestLogger(c).Warn(message, zap.Int("status", status))
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

func requestLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return GetLogger()
}
