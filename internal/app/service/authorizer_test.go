package service

import (
	"context"
	"testing"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAuthorizer_Authorize(t *testing.T) {
	f := setupSalonTest(t)
	ctx := context.Background()

	managerUser := &model.User{Email: "manager@example.com", Name: "윤매니저", Role: model.RoleManager}
	require.NoError(t, f.db.Create(managerUser).Error)
	require.NoError(t, f.db.Create(&model.StaffMembership{StoreID: f.store.ID, UserID: managerUser.ID, Role: model.StaffRoleManager}).Error)

	deskUser := &model.User{Email: "desk@example.com", Name: "박직원", Role: model.RoleStaff}
	require.NoError(t, f.db.Create(deskUser).Error)
	require.NoError(t, f.db.Create(&model.StaffMembership{StoreID: f.store.ID, UserID: deskUser.ID, Role: model.StaffRoleStaff}).Error)

	outsider := &model.User{Email: "outsider@example.com", Name: "외부인", Role: model.RoleOwner}
	require.NoError(t, f.db.Create(outsider).Error)

	admin := Principal{UserID: 999, Role: model.RoleAdmin}
	manager := Principal{UserID: managerUser.ID, Role: model.RoleManager}
	desk := Principal{UserID: deskUser.ID, Role: model.RoleStaff}
	stranger := Principal{UserID: outsider.ID, Role: model.RoleOwner}
	store := Resource{StoreID: f.store.ID}

	tests := []struct {
		name     string
		actor    Principal
		action   Action
		resource Resource
		wantErr  error
	}{
		{"admin reconciles ledger", admin, ActionLedgerReconcile, Resource{}, nil},
		{"owner cannot reconcile ledger", f.ownerActor(), ActionLedgerReconcile, Resource{}, ErrForbidden},
		{"owner deletes store", f.ownerActor(), ActionStoreDelete, store, nil},
		{"manager cannot delete store", manager, ActionStoreDelete, store, ErrForbidden},
		{"manager records sales", manager, ActionSalesRecord, store, nil},
		{"manager writes any calendar", manager, ActionCalendarWrite, Resource{StoreID: f.store.ID, StaffID: f.designer.ID}, nil},
		{"designer updates reservation", f.designerActor(), ActionReservationUpdate, store, nil},
		{"designer cannot view sales", f.designerActor(), ActionSalesView, store, ErrForbidden},
		{"designer writes own calendar", f.designerActor(), ActionCalendarWrite, Resource{StoreID: f.store.ID, StaffID: f.designer.ID}, nil},
		{"staff books reservations", desk, ActionReservationCreate, store, nil},
		{"staff cannot change status", desk, ActionReservationUpdate, store, ErrForbidden},
		{"staff cannot write calendar", desk, ActionCalendarWrite, store, ErrForbidden},
		{"outsider cannot view store", stranger, ActionStoreView, store, ErrForbidden},
		{"missing store", f.ownerActor(), ActionStoreView, Resource{StoreID: 9999}, ErrStoreNotFound},
		{"anyone views categories", desk, ActionCatalogView, Resource{}, nil},
		{"owner manages categories", f.ownerActor(), ActionCatalogManage, Resource{}, nil},
		{"designer cannot manage categories", f.designerActor(), ActionCatalogManage, Resource{}, ErrForbidden},
		{"manager manages customers", manager, ActionCustomerManage, Resource{}, nil},
		{"staff cannot manage customers", desk, ActionCustomerManage, Resource{}, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.authz.Authorize(ctx, tt.actor, tt.action, tt.resource)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
