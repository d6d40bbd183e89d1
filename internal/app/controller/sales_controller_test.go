package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeVisit books, confirms and completes one reservation through the API.
func (api *salonAPI) completeVisit(t *testing.T, start string) uint {
	w := api.do(t, http.MethodPost, fmt.Sprintf("/stores/%d/reservations", api.store.ID), api.booking(start))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := uint(decode(t, w)["reservation"].(map[string]interface{})["id"].(float64))

	for _, status := range []string{"confirmed", "completed"} {
		w = api.do(t, http.MethodPatch, fmt.Sprintf("/reservations/%d/status", id), gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	return id
}

func TestSalesController_SummaryAndDaily(t *testing.T) {
	api := setupSalonAPI(t)
	api.workShift(t, "2024-10-10", 10, 20)
	api.completeVisit(t, "2024-10-10T11:00:00Z")
	api.completeVisit(t, "2024-10-10T14:00:00Z")
	base := fmt.Sprintf("/stores/%d/sales", api.store.ID)

	w := api.do(t, http.MethodGet, base+"?from=2024-10-01&to=2024-10-31&granularity=monthly", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rows := decode(t, w)["summary"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "2024-10", row["bucket"])
	assert.Equal(t, "200", row["revenue"])
	assert.Equal(t, "160", row["profit"])

	w = api.do(t, http.MethodGet, base+"/daily/2024-10-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode(t, w)
	assert.Equal(t, "200", report["total_revenue"])
	assert.Equal(t, "40", report["total_expenses"])
	assert.Len(t, report["entries"], 2)

	w = api.do(t, http.MethodGet, base+"?from=2024-10-01&to=2024-10-31&granularity=weekly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "SALES_INVALID_GRANULARITY", decode(t, w)["error"])

	api.actor = api.designerActor()
	w = api.do(t, http.MethodGet, base+"?from=2024-10-01&to=2024-10-31", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSalesController_ExportDownload(t *testing.T) {
	api := setupSalonAPI(t)
	api.workShift(t, "2024-10-10", 10, 20)
	api.completeVisit(t, "2024-10-10T11:00:00Z")

	w := api.do(t, http.MethodGet, fmt.Sprintf("/stores/%d/sales/export?from=2024-10-01&to=2024-10-31", api.store.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sales-daily-2024-10-01-2024-10-31.xlsx")
	assert.NotZero(t, w.Body.Len())
}
