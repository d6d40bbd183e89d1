package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/app/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SalesController struct {
	reportService service.ReportService
}

func NewSalesController(reportService service.ReportService) *SalesController {
	return &SalesController{reportService: reportService}
}

func salesQuery(c *gin.Context, storeID uint) service.SalesQuery {
	return service.SalesQuery{
		StoreID:     storeID,
		From:        c.Query("from"),
		To:          c.Query("to"),
		Granularity: repository.Granularity(c.Query("granularity")),
	}
}

// GetSummary GET /api/v1/stores/:id/sales?from=&to=&granularity=daily|monthly|yearly
func (ctrl *SalesController) GetSummary(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	rows, err := ctrl.reportService.GetSalesSummary(c.Request.Context(), principal, salesQuery(c, storeID))
	if err != nil {
		respondError(c, err, "get sales summary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": rows})
}

func (ctrl *SalesController) GetDailyReport(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	report, err := ctrl.reportService.GetDailyReport(c.Request.Context(), principal, storeID, c.Param("date"))
	if err != nil {
		respondError(c, err, "get daily sales")
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export GET /api/v1/stores/:id/sales/export?from=&to=&granularity=&archive=true
// archive=true 이면 저장소에 보관하고 링크를 JSON으로 반환, 아니면 xlsx 파일을 바로 내려준다
func (ctrl *SalesController) Export(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}
	archive := strings.EqualFold(c.DefaultQuery("archive", "false"), "true")

	export, err := ctrl.reportService.ExportSalesSummary(c.Request.Context(), principal, salesQuery(c, storeID), archive)
	if err != nil {
		respondError(c, err, "export sales")
		return
	}

	if export.Archive != nil {
		c.JSON(http.StatusOK, gin.H{
			"file_name": export.FileName,
			"archive":   export.Archive,
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	c.Data(http.StatusOK, xlsxContentType, export.Content)
}
