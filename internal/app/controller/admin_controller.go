package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/internal/app/service"
	apperrors "github.com/ikkim/hairable-backend/internal/errors"
	"github.com/ikkim/hairable-backend/internal/middleware"
)

const defaultReconcileLimit = 100

type AdminController struct {
	ledgerService service.LedgerService
}

func NewAdminController(ledgerService service.LedgerService) *AdminController {
	return &AdminController{ledgerService: ledgerService}
}

// ReconcileLedger POST /api/v1/admin/ledger/reconcile?limit=
// 완료되었지만 매출 원장에 반영되지 않은 예약을 일괄 반영
func (ctrl *AdminController) ReconcileLedger(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit := defaultReconcileLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "limit 값이 올바르지 않습니다")
			return
		}
		limit = n
	}

	recorded, err := ctrl.ledgerService.ReconcilePending(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err, "reconcile sales ledger")
		return
	}

	log.Info("Sales ledger reconciled by admin", map[string]interface{}{
		"recorded": recorded,
	})
	c.JSON(http.StatusOK, gin.H{"recorded": recorded})
}
