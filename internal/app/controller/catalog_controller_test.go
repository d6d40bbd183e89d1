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

func TestCatalogController_CreateService(t *testing.T) {
	api := setupSalonAPI(t)

	w := api.do(t, http.MethodPost, "/service-categories", gin.H{"name": "펌"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	categoryID := uint(decode(t, w)["category"].(map[string]interface{})["id"].(float64))

	w = api.do(t, http.MethodPost, "/service-categories", gin.H{"name": "펌"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, fmt.Sprintf("/stores/%d/services", api.store.ID), gin.H{
		"name":             "디지털 펌",
		"price":            "150000",
		"duration_minutes": 120,
		"category_id":      categoryID,
		"designer_ids":     []uint{api.designer.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)["service"].(map[string]interface{})
	assert.Equal(t, "디지털 펌", created["name"])
	assert.Len(t, created["designers"], 1)

	w = api.do(t, http.MethodGet, fmt.Sprintf("/stores/%d/services", api.store.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["count"])

	api.actor = api.designerActor()
	w = api.do(t, http.MethodPost, fmt.Sprintf("/stores/%d/services", api.store.ID), gin.H{
		"name":             "염색",
		"price":            "80000",
		"duration_minutes": 90,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCatalogController_Availability(t *testing.T) {
	api := setupSalonAPI(t)
	path := fmt.Sprintf("/services/%d/availability", api.service.ID)

	w := api.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["available"])
	assert.Equal(t, true, body["in_stock"])
	assert.Equal(t, float64(1), body["designer_count"])

	var item model.InventoryItem
	require.NoError(t, api.db.First(&item).Error)
	w = api.do(t, http.MethodPut, fmt.Sprintf("/services/%d/inventory", api.service.ID), gin.H{
		"items": []gin.H{{"inventory_item_id": item.ID, "quantity": 11}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["available"])
	assert.Len(t, body["shortages"], 1)

	w = api.do(t, http.MethodPut, fmt.Sprintf("/services/%d/designers", api.service.ID), gin.H{"staff_ids": []uint{}})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, path, nil)
	assert.Equal(t, float64(0), decode(t, w)["designer_count"])

	w = api.do(t, http.MethodGet, "/services/9999/availability", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SERVICE_NOT_FOUND", decode(t, w)["error"])
}
