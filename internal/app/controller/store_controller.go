package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/service"
	"github.com/ikkim/hairable-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

type StoreRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type StaffRequest struct {
	UserID   uint       `json:"user_id" binding:"required"`
	Role     string     `json:"role" binding:"required"`
	JoinedAt *time.Time `json:"joined_at"`
}

// CreateStore POST /api/v1/stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req StoreRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := ctrl.storeService.CreateStore(c.Request.Context(), principal, service.StoreInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, err, "create store")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "매장이 등록되었습니다",
		"store":   store,
	})
}

// ListStores GET /api/v1/stores
// 소유하거나 소속된 매장 목록
func (ctrl *StoreController) ListStores(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}

	stores, err := ctrl.storeService.ListStores(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err, "list stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

func (ctrl *StoreController) GetStore(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	store, err := ctrl.storeService.GetStore(c.Request.Context(), principal, storeID)
	if err != nil {
		respondError(c, err, "get store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": store})
}

func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.storeService.DeleteStore(c.Request.Context(), principal, storeID); err != nil {
		respondError(c, err, "delete store")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Store deleted", map[string]interface{}{
		"store_id": storeID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "매장이 삭제되었습니다"})
}

// AddStaff POST /api/v1/stores/:id/staff
func (ctrl *StoreController) AddStaff(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StaffRequest
	if !bindJSON(c, &req) {
		return
	}

	membership, err := ctrl.storeService.AddStaff(c.Request.Context(), principal, storeID, service.StaffInput{
		UserID:   req.UserID,
		Role:     model.StaffRole(req.Role),
		JoinedAt: req.JoinedAt,
	})
	if err != nil {
		respondError(c, err, "add staff")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"staff": membership})
}

func (ctrl *StoreController) ListStaff(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	staff, err := ctrl.storeService.ListStaff(c.Request.Context(), principal, storeID)
	if err != nil {
		respondError(c, err, "list staff")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"staff": staff,
		"count": len(staff),
	})
}

// RemoveStaff DELETE /api/v1/stores/:id/staff/:staff_id
func (ctrl *StoreController) RemoveStaff(c *gin.Context) {
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

	if err := ctrl.storeService.RemoveStaff(c.Request.Context(), principal, storeID, staffID); err != nil {
		respondError(c, err, "remove staff")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "직원이 삭제되었습니다"})
}
