package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/internal/app/service"
	apperrors "github.com/ikkim/hairable-backend/internal/errors"
	"github.com/ikkim/hairable-backend/internal/middleware"
)

var rejectionStatus = map[service.RejectionKind]int{
	service.KindNotFound:          http.StatusNotFound,
	service.KindConflict:          http.StatusConflict,
	service.KindInvalidState:      http.StatusConflict,
	service.KindValidation:        http.StatusBadRequest,
	service.KindForbidden:         http.StatusForbidden,
	service.KindDependencyFailure: http.StatusBadGateway,
}

// respondError maps service rejections to their HTTP status and stable code.
// Anything else is logged and answered through ParseError.
func respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	if rejection, ok := service.AsRejection(err); ok {
		status, known := rejectionStatus[rejection.Kind]
		if !known {
			status = http.StatusBadRequest
		}
		log.Warn("Request rejected", map[string]interface{}{
			"context": context,
			"code":    rejection.Code,
			"kind":    rejection.Kind,
		})
		apperrors.RespondWithError(c, status, rejection.Code, rejection.Message)
		return
	}

	log.Error("Request failed", err, map[string]interface{}{
		"context": context,
	})
	apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid path ID", map[string]interface{}{
			"param": param,
			"value": raw,
		})
		apperrors.InvalidID(c, param)
		return 0, false
	}
	return uint(id), true
}

func currentPrincipal(c *gin.Context) (service.Principal, bool) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Principal not found in context", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "")
		return service.Principal{}, false
	}
	return principal, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, "입력값이 올바르지 않습니다")
		return false
	}
	return true
}
