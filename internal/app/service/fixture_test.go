package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/hairable-backend/config"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/db"
	"github.com/ikkim/hairable-backend/internal/queue"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event queue.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

// salonFixture is one store with an owner, a designer eligible for a 60 minute cut
// that consumes one unit of an inventory item costing 20.
type salonFixture struct {
	db        *gorm.DB
	policy    config.SchedulingPolicy
	publisher *recordingPublisher

	owner        *model.User
	designerUser *model.User
	store        *model.Store
	designer     *model.StaffMembership
	service      *model.Service
	item         *model.InventoryItem

	authz        Authorizer
	reservations ReservationService
	ledger       LedgerService
	calendar     CalendarService
	catalog      CatalogService
	stores       StoreService
	customers    CustomerService
	reports      ReportService

	locker          *MemoryLocker
	reservationRepo repository.ReservationRepository
	salesRepo       repository.SalesRepository
}

func (f *salonFixture) ownerActor() Principal {
	return Principal{UserID: f.owner.ID, Role: model.RoleOwner}
}

func (f *salonFixture) designerActor() Principal {
	return Principal{UserID: f.designerUser.ID, Role: model.RoleDesigner}
}

func setupSalonTest(t *testing.T) *salonFixture {
	return setupSalonTestWithPolicy(t, func(*config.SchedulingPolicy) {})
}

func setupSalonTestWithPolicy(t *testing.T, adjust func(*config.SchedulingPolicy)) *salonFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	policy := config.DefaultPolicy()
	policy.BusinessTimezone = "UTC"
	adjust(&policy)

	f := &salonFixture{db: testDB, policy: policy, publisher: &recordingPublisher{}}

	f.owner = &model.User{Email: "owner@example.com", Name: "김원장", Role: model.RoleOwner}
	require.NoError(t, testDB.Create(f.owner).Error)
	f.designerUser = &model.User{Email: "designer@example.com", Name: "이디자", Role: model.RoleDesigner}
	require.NoError(t, testDB.Create(f.designerUser).Error)

	f.store = &model.Store{Name: "헤어라운지 강남점", OwnerID: f.owner.ID}
	require.NoError(t, testDB.Create(f.store).Error)

	f.designer = &model.StaffMembership{StoreID: f.store.ID, UserID: f.designerUser.ID, Role: model.StaffRoleDesigner, JoinedAt: time.Now()}
	require.NoError(t, testDB.Create(f.designer).Error)

	f.item = &model.InventoryItem{
		Name:          "트리트먼트",
		PurchasePrice: decimal.NewFromInt(20),
		SellingPrice:  decimal.NewFromInt(35),
		Usage:         model.UsageService,
		Stock:         10,
		SafetyStock:   2,
	}
	require.NoError(t, testDB.Create(f.item).Error)

	f.service = &model.Service{StoreID: &f.store.ID, Name: "커트", Price: decimal.NewFromInt(100), DurationMinutes: 60}
	require.NoError(t, testDB.Create(f.service).Error)
	require.NoError(t, testDB.Model(f.service).Association("Designers").Append(f.designer))
	require.NoError(t, testDB.Create(&model.ServiceInventory{ServiceID: f.service.ID, InventoryItemID: f.item.ID, Quantity: 1}).Error)

	storeRepo := repository.NewStoreRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	serviceRepo := repository.NewServiceRepository(testDB)
	inventoryRepo := repository.NewInventoryRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	calendarRepo := repository.NewCalendarRepository(testDB)
	f.reservationRepo = repository.NewReservationRepository(testDB)
	f.salesRepo = repository.NewSalesRepository(testDB)

	locker := NewMemoryLocker()
	f.locker = locker
	f.authz = NewStoreAuthorizer(testDB)
	f.ledger = NewLedgerService(testDB, f.reservationRepo, f.salesRepo, f.authz, policy)
	f.reservations = NewReservationService(testDB, f.reservationRepo, customerRepo, calendarRepo, f.ledger, f.authz, locker, f.publisher, policy)
	f.calendar = NewCalendarService(testDB, calendarRepo, storeRepo, f.authz, locker)
	f.catalog = NewCatalogService(serviceRepo, storeRepo, inventoryRepo, f.authz)
	f.stores = NewStoreService(storeRepo, userRepo, calendarRepo, f.authz)
	f.customers = NewCustomerService(customerRepo, f.authz)
	f.reports = NewReportService(f.salesRepo, f.authz, nil)

	return f
}

// workShift stores a working entry for the designer directly.
func (f *salonFixture) workShift(t *testing.T, date string, startHour, endHour int) {
	entry := &model.WorkingHoursEntry{
		StaffMembershipID: f.designer.ID,
		StoreID:           f.store.ID,
		WorkDate:          date,
		StartTime:         datatypes.NewTime(startHour, 0, 0, 0),
		EndTime:           datatypes.NewTime(endHour, 0, 0, 0),
		Status:            model.WorkStatusWorking,
	}
	require.NoError(t, f.db.Create(entry).Error)
}

func at(date string, hour, minute int) time.Time {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (f *salonFixture) bookingInput(start time.Time) CreateReservationInput {
	staffID := f.designer.ID
	return CreateReservationInput{
		StoreID:   f.store.ID,
		ServiceID: f.service.ID,
		StaffID:   &staffID,
		Customer: CustomerInput{
			Name:   "홍길동",
			Phone:  "010-1234-5678",
			Gender: model.GenderMale,
		},
		ReservationTime: start,
	}
}

// completedReservation books at the given time and walks it to completed.
func (f *salonFixture) completedReservation(t *testing.T, start time.Time) *model.Reservation {
	ctx := context.Background()
	input := f.bookingInput(start)
	input.Status = string(model.ReservationConfirmed)

	reservation, err := f.reservations.CreateReservation(ctx, f.ownerActor(), input)
	require.NoError(t, err)

	result, err := f.reservations.UpdateReservationStatus(ctx, f.ownerActor(), reservation.ID, StatusUpdateInput{Status: string(model.ReservationCompleted)})
	require.NoError(t, err)
	require.Nil(t, result.LedgerWarning)
	return result.Reservation
}
