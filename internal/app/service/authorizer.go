package service

import (
	"context"
	"errors"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"gorm.io/gorm"
)

// Principal is the authenticated caller as issued by the identity service.
type Principal struct {
	UserID uint
	Role   model.UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

type Action string

const (
	ActionStoreView   Action = "store:view"
	ActionStoreDelete Action = "store:delete"
	ActionStaffManage Action = "staff:manage"

	ActionCatalogView   Action = "catalog:view"
	ActionCatalogManage Action = "catalog:manage"

	ActionReservationCreate Action = "reservation:create"
	ActionReservationView   Action = "reservation:view"
	ActionReservationUpdate Action = "reservation:update_status"

	ActionCalendarView  Action = "calendar:view"
	ActionCalendarWrite Action = "calendar:write"

	ActionSalesView   Action = "sales:view"
	ActionSalesRecord Action = "sales:record"

	ActionCustomerView   Action = "customer:view"
	ActionCustomerManage Action = "customer:manage"

	ActionLedgerReconcile Action = "ledger:reconcile"
)

// Resource identifies what an action targets. StoreID zero means a store-independent resource.
// StaffID is set when the action targets a single staff member's own data.
type Resource struct {
	StoreID uint
	StaffID uint
}

// Authorizer is the single capability check every service consults before acting.
type Authorizer interface {
	Authorize(ctx context.Context, principal Principal, action Action, resource Resource) error
}

var storeRoleActions = map[model.StaffRole]map[Action]bool{
	model.StaffRoleDesigner: {
		ActionStoreView:         true,
		ActionCatalogView:       true,
		ActionReservationCreate: true,
		ActionReservationView:   true,
		ActionReservationUpdate: true,
		ActionCalendarView:      true,
		ActionCustomerView:      true,
	},
	model.StaffRoleStaff: {
		ActionStoreView:         true,
		ActionCatalogView:       true,
		ActionReservationCreate: true,
		ActionReservationView:   true,
		ActionCalendarView:      true,
		ActionCustomerView:      true,
	},
}

type storeAuthorizer struct {
	db *gorm.DB
}

// NewStoreAuthorizer evaluates store ownership and staff membership roles.
func NewStoreAuthorizer(db *gorm.DB) Authorizer {
	return &storeAuthorizer{db: db}
}

func (a *storeAuthorizer) Authorize(ctx context.Context, principal Principal, action Action, resource Resource) error {
	if principal.IsAdmin() {
		return nil
	}

	switch action {
	case ActionLedgerReconcile:
		return a.deny(principal, action, resource)
	case ActionCustomerManage:
		if principal.Role == model.RoleOwner || principal.Role == model.RoleManager {
			return nil
		}
		return a.deny(principal, action, resource)
	}

	if resource.StoreID == 0 {
		// store-independent resources: categories, unbound services, customers
		switch action {
		case ActionCatalogView, ActionCustomerView:
			return nil
		case ActionCatalogManage:
			if principal.Role == model.RoleOwner || principal.Role == model.RoleManager {
				return nil
			}
		}
		return a.deny(principal, action, resource)
	}

	var store model.Store
	if err := a.db.WithContext(ctx).Select("id", "owner_id").First(&store, resource.StoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}
	if store.OwnerID == principal.UserID {
		return nil
	}
	if action == ActionStoreDelete {
		return a.deny(principal, action, resource)
	}

	var membership model.StaffMembership
	err := a.db.WithContext(ctx).
		Where("store_id = ? AND user_id = ?", resource.StoreID, principal.UserID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.deny(principal, action, resource)
		}
		return err
	}

	if membership.Role == model.StaffRoleOwner || membership.Role == model.StaffRoleManager {
		return nil
	}
	if action == ActionCalendarWrite && membership.Role == model.StaffRoleDesigner &&
		resource.StaffID != 0 && resource.StaffID == membership.ID {
		return nil
	}
	if storeRoleActions[membership.Role][action] {
		return nil
	}
	return a.deny(principal, action, resource)
}

func (a *storeAuthorizer) deny(principal Principal, action Action, resource Resource) error {
	logger.Warn("Authorization denied", map[string]interface{}{
		"user_id":  principal.UserID,
		"role":     principal.Role,
		"action":   action,
		"store_id": resource.StoreID,
	})
	return ErrForbidden
}
