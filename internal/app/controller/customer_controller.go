package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/service"
)

type CustomerController struct {
	customerService service.CustomerService
}

func NewCustomerController(customerService service.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

type MembershipRequest struct {
	IsMembership *bool  `json:"is_membership" binding:"required"`
	Gender       string `json:"gender"`
}

func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	customerID, ok := parseID(c, "id")
	if !ok {
		return
	}

	customer, err := ctrl.customerService.GetCustomer(c.Request.Context(), principal, customerID)
	if err != nil {
		respondError(c, err, "get customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// UpdateMembership PATCH /api/v1/customers/:id/membership
func (ctrl *CustomerController) UpdateMembership(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	customerID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req MembershipRequest
	if !bindJSON(c, &req) {
		return
	}

	input := service.MembershipInput{IsMembership: *req.IsMembership}
	if req.Gender != "" {
		gender := model.Gender(req.Gender)
		input.Gender = &gender
	}

	customer, err := ctrl.customerService.UpdateMembership(c.Request.Context(), principal, customerID, input)
	if err != nil {
		respondError(c, err, "update customer membership")
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}
