package service

import (
	"context"
	"testing"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_UpdateMembership(t *testing.T) {
	f := setupSalonTest(t)
	ctx := context.Background()
	f.workShift(t, "2024-10-10", 9, 18)

	reservation, err := f.reservations.CreateReservation(ctx, f.ownerActor(), f.bookingInput(at("2024-10-10", 10, 0)))
	require.NoError(t, err)

	customer, err := f.customers.GetCustomer(ctx, f.designerActor(), reservation.CustomerID)
	require.NoError(t, err)
	assert.False(t, customer.IsMembership)
	assert.Equal(t, 1, customer.ReservationCount)

	female := model.GenderFemale
	updated, err := f.customers.UpdateMembership(ctx, f.ownerActor(), customer.ID, MembershipInput{IsMembership: true, Gender: &female})
	require.NoError(t, err)
	assert.True(t, updated.IsMembership)
	assert.Equal(t, model.GenderFemale, updated.Gender)
	assert.Equal(t, 1, updated.ReservationCount)
}

func TestCustomerService_UpdateMembership_Rejections(t *testing.T) {
	f := setupSalonTest(t)
	ctx := context.Background()

	customer := &model.Customer{Name: "홍길동", PhoneNumber: "010-1234-5678", Gender: model.GenderMale}
	require.NoError(t, f.db.Create(customer).Error)

	_, err := f.customers.UpdateMembership(ctx, f.designerActor(), customer.ID, MembershipInput{IsMembership: true})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.customers.UpdateMembership(ctx, f.ownerActor(), 9999, MembershipInput{IsMembership: true})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	unknown := model.Gender("X")
	_, err = f.customers.UpdateMembership(ctx, f.ownerActor(), customer.ID, MembershipInput{IsMembership: true, Gender: &unknown})
	rejection, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, rejection.Kind)

	_, err = f.customers.GetCustomer(ctx, f.ownerActor(), 9999)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
