package repository

import (
	"testing"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStoreTest(t *testing.T) (*gorm.DB, StoreRepository, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	owner := &model.User{Email: "owner@example.com", Name: "김원장", Role: model.RoleOwner}
	require.NoError(t, testDB.Create(owner).Error)

	return testDB, NewStoreRepository(testDB), owner
}

func TestStoreRepository_Create_DuplicateName(t *testing.T) {
	_, repo, owner := setupStoreTest(t)

	require.NoError(t, repo.Create(&model.Store{Name: "헤어라운지", OwnerID: owner.ID}))
	err := repo.Create(&model.Store{Name: "헤어라운지", OwnerID: owner.ID})
	assert.Error(t, err)
}

func TestStoreRepository_ListForUser(t *testing.T) {
	testDB, repo, owner := setupStoreTest(t)

	owned := &model.Store{Name: "강남점", OwnerID: owner.ID}
	require.NoError(t, repo.Create(owned))

	other := &model.User{Email: "other@example.com", Name: "박원장", Role: model.RoleOwner}
	require.NoError(t, testDB.Create(other).Error)
	foreign := &model.Store{Name: "홍대점", OwnerID: other.ID}
	require.NoError(t, repo.Create(foreign))
	unrelated := &model.Store{Name: "신촌점", OwnerID: other.ID}
	require.NoError(t, repo.Create(unrelated))

	require.NoError(t, repo.CreateMembership(&model.StaffMembership{
		StoreID: foreign.ID,
		UserID:  owner.ID,
		Role:    model.StaffRoleManager,
	}))

	stores, err := repo.ListForUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "강남점", stores[0].Name)
	assert.Equal(t, "홍대점", stores[1].Name)
}

func TestStoreRepository_CreateMembership_Duplicate(t *testing.T) {
	_, repo, owner := setupStoreTest(t)

	store := &model.Store{Name: "강남점", OwnerID: owner.ID}
	require.NoError(t, repo.Create(store))

	require.NoError(t, repo.CreateMembership(&model.StaffMembership{StoreID: store.ID, UserID: owner.ID, Role: model.StaffRoleDesigner}))
	err := repo.CreateMembership(&model.StaffMembership{StoreID: store.ID, UserID: owner.ID, Role: model.StaffRoleStaff})
	assert.Error(t, err)
}

func TestStoreRepository_Delete_Cascades(t *testing.T) {
	testDB, repo, owner := setupStoreTest(t)

	store := &model.Store{Name: "강남점", OwnerID: owner.ID}
	require.NoError(t, repo.Create(store))
	membership := &model.StaffMembership{StoreID: store.ID, UserID: owner.ID, Role: model.StaffRoleDesigner}
	require.NoError(t, repo.CreateMembership(membership))

	service := &model.Service{StoreID: &store.ID, Name: "커트", Price: decimal.NewFromInt(20000), DurationMinutes: 30}
	require.NoError(t, testDB.Create(service).Error)
	require.NoError(t, testDB.Model(service).Association("Designers").Append(membership))
	require.NoError(t, testDB.Create(&model.WorkingHoursEntry{
		StaffMembershipID: membership.ID,
		StoreID:           store.ID,
		WorkDate:          "2024-05-01",
		Status:            model.WorkStatusOff,
	}).Error)
	require.NoError(t, testDB.Create(&model.SalesReport{StoreID: store.ID, ReportDate: "2024-05-01"}).Error)

	require.NoError(t, repo.Delete(store.ID))

	var count int64
	for _, m := range []interface{}{
		&model.Store{}, &model.StaffMembership{}, &model.Service{}, &model.WorkingHoursEntry{}, &model.SalesReport{},
	} {
		require.NoError(t, testDB.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}
	require.NoError(t, testDB.Table("service_designers").Count(&count).Error)
	assert.Zero(t, count)
}

func TestStoreRepository_DeleteMembership(t *testing.T) {
	testDB, repo, owner := setupStoreTest(t)

	store := &model.Store{Name: "강남점", OwnerID: owner.ID}
	require.NoError(t, repo.Create(store))
	membership := &model.StaffMembership{StoreID: store.ID, UserID: owner.ID, Role: model.StaffRoleDesigner}
	require.NoError(t, repo.CreateMembership(membership))
	require.NoError(t, testDB.Create(&model.WorkingHoursEntry{
		StaffMembershipID: membership.ID,
		StoreID:           store.ID,
		WorkDate:          "2024-05-01",
		Status:            model.WorkStatusOff,
	}).Error)

	require.NoError(t, repo.DeleteMembership(membership.ID))

	var count int64
	require.NoError(t, testDB.Model(&model.WorkingHoursEntry{}).Count(&count).Error)
	assert.Zero(t, count)

	err := repo.DeleteMembership(membership.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
