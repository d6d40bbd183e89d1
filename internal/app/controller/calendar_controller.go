package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/service"
)

type CalendarController struct {
	calendarService service.CalendarService
}

func NewCalendarController(calendarService service.CalendarService) *CalendarController {
	return &CalendarController{calendarService: calendarService}
}

type WorkingHoursRequest struct {
	StaffID   uint   `json:"staff_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status" binding:"required"`
}

// UpsertWorkingHours PUT /api/v1/stores/:id/working-hours
func (ctrl *CalendarController) UpsertWorkingHours(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req WorkingHoursRequest
	if !bindJSON(c, &req) {
		return
	}

	entry, err := ctrl.calendarService.UpsertWorkingHours(c.Request.Context(), principal, service.WorkingHoursInput{
		StoreID:   storeID,
		StaffID:   req.StaffID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.WorkStatus(req.Status),
	})
	if err != nil {
		respondError(c, err, "upsert working hours")
		return
	}
	c.JSON(http.StatusOK, gin.H{"working_hours": entry})
}

// GetWorkingStaff GET /api/v1/stores/:id/working-staff?date=
func (ctrl *CalendarController) GetWorkingStaff(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	staff, err := ctrl.calendarService.GetWorkingStaff(c.Request.Context(), principal, storeID, c.Query("date"))
	if err != nil {
		respondError(c, err, "get working staff")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"staff": staff,
		"count": len(staff),
	})
}

// GetCalendar GET /api/v1/stores/:id/calendar?from=&to=
func (ctrl *CalendarController) GetCalendar(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tallies, err := ctrl.calendarService.GetStoreCalendar(c.Request.Context(), principal, storeID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err, "get store calendar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": tallies})
}

func (ctrl *CalendarController) RebuildTally(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tally, err := ctrl.calendarService.RebuildTally(c.Request.Context(), principal, storeID, c.Param("date"))
	if err != nil {
		respondError(c, err, "rebuild calendar tally")
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": tally})
}

// GetStaffSchedule GET /api/v1/stores/:id/staff/:staff_id/schedule?from=&to=
func (ctrl *CalendarController) GetStaffSchedule(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}
	staffID, ok := parseID(c, "staff_id")
	if !ok {
		return
	}

	entries, err := ctrl.calendarService.ListStaffSchedule(c.Request.Context(), principal, storeID, staffID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err, "get staff schedule")
		return
	}
	c.JSON(http.StatusOK, gin.H{"working_hours": entries})
}
