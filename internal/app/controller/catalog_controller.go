package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/internal/app/service"
	"github.com/shopspring/decimal"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type ServiceRequest struct {
	Name            string                         `json:"name" binding:"required"`
	Price           decimal.Decimal                `json:"price"`
	DurationMinutes int                            `json:"duration_minutes" binding:"required"`
	CategoryID      *uint                          `json:"category_id"`
	DesignerIDs     []uint                         `json:"designer_ids"`
	Inventory       []service.InventoryRequirement `json:"inventory"`
}

type DesignersRequest struct {
	StaffIDs []uint `json:"staff_ids"`
}

type InventoryRequest struct {
	Items []service.InventoryRequirement `json:"items"`
}

func (ctrl *CatalogController) CreateCategory(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.catalogService.CreateCategory(c.Request.Context(), principal, req.Name)
	if err != nil {
		respondError(c, err, "create service category")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (ctrl *CatalogController) ListCategories(c *gin.Context) {
	categories, err := ctrl.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "list service categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateService POST /api/v1/stores/:id/services
func (ctrl *CatalogController) CreateService(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := ctrl.catalogService.CreateService(c.Request.Context(), principal, storeID, service.ServiceInput{
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		CategoryID:      req.CategoryID,
		DesignerIDs:     req.DesignerIDs,
		Inventory:       req.Inventory,
	})
	if err != nil {
		respondError(c, err, "create service")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service": created})
}

func (ctrl *CatalogController) ListServices(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	services, err := ctrl.catalogService.ListServices(c.Request.Context(), principal, storeID)
	if err != nil {
		respondError(c, err, "list services")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"count":    len(services),
	})
}

func (ctrl *CatalogController) GetService(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	found, err := ctrl.catalogService.GetService(c.Request.Context(), principal, serviceID)
	if err != nil {
		respondError(c, err, "get service")
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": found})
}

// CheckAvailability GET /api/v1/services/:id/availability
func (ctrl *CatalogController) CheckAvailability(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}

	availability, err := ctrl.catalogService.CheckAvailability(c.Request.Context(), principal, serviceID)
	if err != nil {
		respondError(c, err, "check service availability")
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (ctrl *CatalogController) SetDesigners(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req DesignersRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := ctrl.catalogService.SetServiceDesigners(c.Request.Context(), principal, serviceID, req.StaffIDs)
	if err != nil {
		respondError(c, err, "update service designers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": updated})
}

func (ctrl *CatalogController) SetInventory(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	serviceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req InventoryRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := ctrl.catalogService.SetServiceInventory(c.Request.Context(), principal, serviceID, req.Items)
	if err != nil {
		respondError(c, err, "update service inventory")
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": updated})
}
