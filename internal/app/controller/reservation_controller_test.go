package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationController_CreateReservation(t *testing.T) {
	api := setupSalonAPI(t)
	api.workShift(t, "2024-10-10", 10, 20)
	path := fmt.Sprintf("/stores/%d/reservations", api.store.ID)

	w := api.do(t, http.MethodPost, path, api.booking("2024-10-10T16:00:00Z"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reservation := decode(t, w)["reservation"].(map[string]interface{})
	assert.Equal(t, "pending", reservation["status"])
	assert.Equal(t, "2024-10-10", reservation["reservation_date"])

	w = api.do(t, http.MethodPost, path, api.booking("2024-10-10 16:30"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RESERVATION_OVERLAP", decode(t, w)["error"])

	w = api.do(t, http.MethodPost, path, api.booking("2024-10-10T17:00:00Z"))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodPost, path, api.booking("2024-10-10T21:00:00Z"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RESERVATION_OUTSIDE_HOURS", decode(t, w)["error"])

	w = api.do(t, http.MethodGet, path+"?date=2024-10-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])
}

func TestReservationController_CreateReservation_BadRequests(t *testing.T) {
	api := setupSalonAPI(t)

	w := api.do(t, http.MethodPost, "/stores/abc/reservations", api.booking("2024-10-10T16:00:00Z"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_ID", decode(t, w)["error"])

	w = api.do(t, http.MethodPost, fmt.Sprintf("/stores/%d/reservations", api.store.ID), gin.H{"service_id": api.service.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", decode(t, w)["error"])

	w = api.do(t, http.MethodPost, fmt.Sprintf("/stores/%d/reservations", api.store.ID), api.booking("tomorrow at four"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_FORMAT", decode(t, w)["error"])

	w = api.do(t, http.MethodGet, fmt.Sprintf("/stores/%d/reservations?status=unknown", api.store.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/stores/9999/reservations", api.booking("2024-10-10T16:00:00Z"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "STORE_NOT_FOUND", decode(t, w)["error"])
}

func TestReservationController_StatusLifecycle(t *testing.T) {
	api := setupSalonAPI(t)
	api.workShift(t, "2024-10-10", 10, 20)

	w := api.do(t, http.MethodPost, fmt.Sprintf("/stores/%d/reservations", api.store.ID), api.booking("2024-10-10T16:00:00Z"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["reservation"].(map[string]interface{})["id"].(float64))
	statusPath := fmt.Sprintf("/reservations/%d/status", id)

	w = api.do(t, http.MethodPatch, statusPath, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["changed"])

	// 예약 중 상태에서 시간 변경
	w = api.do(t, http.MethodPatch, statusPath, gin.H{"reservation_time": "2024-10-10T18:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodPatch, statusPath, gin.H{"status": "방문 완료"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["ledger_updated"])
	assert.Nil(t, body["warning"])
	assert.Equal(t, "completed", body["reservation"].(map[string]interface{})["status"])

	w = api.do(t, http.MethodPatch, statusPath, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RESERVATION_INVALID_TRANSITION", decode(t, w)["error"])

	// 재시도는 중복 반영하지 않는다
	w = api.do(t, http.MethodPost, fmt.Sprintf("/reservations/%d/sales", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Empty(t, body["appended"])
	assert.Equal(t, "100", body["report"].(map[string]interface{})["total_revenue"])

	w = api.do(t, http.MethodGet, fmt.Sprintf("/reservations/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReservationController_DesignerCannotCorrectSales(t *testing.T) {
	api := setupSalonAPI(t)
	api.workShift(t, "2024-10-10", 10, 20)

	w := api.do(t, http.MethodPost, fmt.Sprintf("/stores/%d/reservations", api.store.ID), api.booking("2024-10-10T11:00:00Z"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode(t, w)["reservation"].(map[string]interface{})["id"].(float64))

	w = api.do(t, http.MethodPatch, fmt.Sprintf("/reservations/%d/status", id), gin.H{"status": "completed"})
	require.Equal(t, http.StatusConflict, w.Code, "pending cannot complete directly")

	api.do(t, http.MethodPatch, fmt.Sprintf("/reservations/%d/status", id), gin.H{"status": "confirmed"})
	w = api.do(t, http.MethodPatch, fmt.Sprintf("/reservations/%d/status", id), gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	api.actor = api.designerActor()
	w = api.do(t, http.MethodPost, fmt.Sprintf("/reservations/%d/sales/correction", id), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTHZ_FORBIDDEN", decode(t, w)["error"])

	api.actor = api.ownerActor()
	w = api.do(t, http.MethodPost, fmt.Sprintf("/reservations/%d/sales/correction", id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReservationController_CreateReservation_DesignerFromOtherStore(t *testing.T) {
	api := setupSalonAPI(t)
	api.workShift(t, "2024-10-10", 10, 20)

	otherStore := &model.Store{Name: "헤어라운지 홍대점", OwnerID: api.owner.ID}
	require.NoError(t, api.db.Create(otherStore).Error)
	outsider := &model.StaffMembership{StoreID: otherStore.ID, UserID: api.designerUser.ID, Role: model.StaffRoleDesigner}
	require.NoError(t, api.db.Create(outsider).Error)

	body := api.booking("2024-10-10T16:00:00Z")
	body["staff_id"] = outsider.ID
	w := api.do(t, http.MethodPost, fmt.Sprintf("/stores/%d/reservations", api.store.ID), body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "STAFF_WRONG_STORE", decode(t, w)["error"])
}
