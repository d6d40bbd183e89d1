package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/app/service"
	apperrors "github.com/ikkim/hairable-backend/internal/errors"
	"github.com/ikkim/hairable-backend/internal/middleware"
	"github.com/ikkim/hairable-backend/pkg/util"
)

type ReservationController struct {
	reservationService service.ReservationService
	ledgerService      service.LedgerService
	location           *time.Location
}

// NewReservationController reads zone-less reservation times in loc.
func NewReservationController(reservationService service.ReservationService, ledgerService service.LedgerService, loc *time.Location) *ReservationController {
	return &ReservationController{
		reservationService: reservationService,
		ledgerService:      ledgerService,
		location:           loc,
	}
}

type CreateReservationRequest struct {
	ServiceID       uint   `json:"service_id" binding:"required"`
	StaffID         *uint  `json:"staff_id"`
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone" binding:"required"`
	CustomerGender  string `json:"customer_gender"`
	ReservationTime string `json:"reservation_time" binding:"required"`
	Status          string `json:"status"`
}

type UpdateStatusRequest struct {
	Status          string `json:"status"`
	ReservationTime string `json:"reservation_time"`
}

// CreateReservation POST /api/v1/stores/:id/reservations
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := util.ParseDateTime(req.ReservationTime, ctrl.location)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "예약 시간 형식이 올바르지 않습니다")
		return
	}

	reservation, err := ctrl.reservationService.CreateReservation(c.Request.Context(), principal, service.CreateReservationInput{
		StoreID:   storeID,
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Customer: service.CustomerInput{
			Name:   req.CustomerName,
			Phone:  req.CustomerPhone,
			Gender: model.Gender(req.CustomerGender),
		},
		ReservationTime: start,
		Status:          req.Status,
	})
	if err != nil {
		respondError(c, err, "create reservation")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "예약이 등록되었습니다",
		"reservation": reservation,
	})
}

// ListReservations GET /api/v1/stores/:id/reservations?date=&status=
func (ctrl *ReservationController) ListReservations(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	filter := repository.ReservationFilter{Date: c.Query("date")}
	if raw := c.Query("status"); raw != "" {
		status, known := model.ParseReservationStatus(raw)
		if !known {
			respondError(c, service.ErrInvalidStatus, "list reservations")
			return
		}
		filter.Status = status
	}

	reservations, err := ctrl.reservationService.ListStoreReservations(c.Request.Context(), principal, storeID, filter)
	if err != nil {
		respondError(c, err, "list reservations")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reservations": reservations,
		"count":        len(reservations),
	})
}

func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	reservationID, ok := parseID(c, "id")
	if !ok {
		return
	}

	reservation, err := ctrl.reservationService.GetReservation(c.Request.Context(), principal, reservationID)
	if err != nil {
		respondError(c, err, "get reservation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": reservation})
}

// UpdateStatus PATCH /api/v1/reservations/:id/status
// 상태 변경은 커밋되었으나 매출 반영에 실패한 경우 200과 함께 warning을 내려준다
func (ctrl *ReservationController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	reservationID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.StatusUpdateInput{Status: req.Status}
	if req.ReservationTime != "" {
		start, err := util.ParseDateTime(req.ReservationTime, ctrl.location)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "예약 시간 형식이 올바르지 않습니다")
			return
		}
		input.ReservationTime = &start
	}

	result, err := ctrl.reservationService.UpdateReservationStatus(c.Request.Context(), principal, reservationID, input)
	if err != nil {
		respondError(c, err, "update reservation status")
		return
	}

	body := gin.H{
		"reservation":    result.Reservation,
		"changed":        result.Changed,
		"ledger_updated": result.LedgerUpdated,
	}
	if result.LedgerWarning != nil {
		log.Warn("Reservation completed without sales ledger update", map[string]interface{}{
			"reservation_id": reservationID,
		})
		body["warning"] = apperrors.WarningResponse{
			Code:    result.LedgerWarning.Code,
			Message: result.LedgerWarning.Message,
		}
	}
	c.JSON(http.StatusOK, body)
}

// RecordSales POST /api/v1/reservations/:id/sales
// 완료 예약의 매출 반영 재시도 (이미 반영된 경우 변경 없음)
func (ctrl *ReservationController) RecordSales(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	reservationID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.ledgerService.RetryCompletion(c.Request.Context(), principal, reservationID)
	if err != nil {
		respondError(c, err, "record sales")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":   result.Report,
		"appended": result.Appended,
	})
}

// CorrectSales POST /api/v1/reservations/:id/sales/correction
func (ctrl *ReservationController) CorrectSales(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	reservationID, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.ledgerService.CorrectCompletion(c.Request.Context(), principal, reservationID)
	if err != nil {
		respondError(c, err, "correct sales")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":   result.Report,
		"appended": result.Appended,
	})
}
