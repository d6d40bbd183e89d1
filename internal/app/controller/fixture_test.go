package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hairable-backend/config"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/app/service"
	"github.com/ikkim/hairable-backend/internal/db"
	"github.com/ikkim/hairable-backend/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// salonAPI wires every controller over an in-memory database.
// actor is injected as the authenticated principal of each request.
type salonAPI struct {
	db     *gorm.DB
	router *gin.Engine
	actor  service.Principal

	owner        *model.User
	designerUser *model.User
	store        *model.Store
	designer     *model.StaffMembership
	service      *model.Service
}

func setupSalonAPI(t *testing.T) *salonAPI {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	api := &salonAPI{db: testDB}

	api.owner = &model.User{Email: "owner@example.com", Name: "김원장", Role: model.RoleOwner}
	require.NoError(t, testDB.Create(api.owner).Error)
	api.designerUser = &model.User{Email: "designer@example.com", Name: "이디자", Role: model.RoleDesigner}
	require.NoError(t, testDB.Create(api.designerUser).Error)

	api.store = &model.Store{Name: "헤어라운지 강남점", OwnerID: api.owner.ID}
	require.NoError(t, testDB.Create(api.store).Error)
	api.designer = &model.StaffMembership{StoreID: api.store.ID, UserID: api.designerUser.ID, Role: model.StaffRoleDesigner, JoinedAt: time.Now()}
	require.NoError(t, testDB.Create(api.designer).Error)

	item := &model.InventoryItem{Name: "트리트먼트", PurchasePrice: decimal.NewFromInt(20), SellingPrice: decimal.NewFromInt(35), Usage: model.UsageService, Stock: 10}
	require.NoError(t, testDB.Create(item).Error)

	api.service = &model.Service{StoreID: &api.store.ID, Name: "커트", Price: decimal.NewFromInt(100), DurationMinutes: 60}
	require.NoError(t, testDB.Create(api.service).Error)
	require.NoError(t, testDB.Model(api.service).Association("Designers").Append(api.designer))
	require.NoError(t, testDB.Create(&model.ServiceInventory{ServiceID: api.service.ID, InventoryItemID: item.ID, Quantity: 1}).Error)

	policy := config.DefaultPolicy()
	policy.BusinessTimezone = "UTC"

	storeRepo := repository.NewStoreRepository(testDB)
	calendarRepo := repository.NewCalendarRepository(testDB)
	reservationRepo := repository.NewReservationRepository(testDB)
	salesRepo := repository.NewSalesRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)

	authz := service.NewStoreAuthorizer(testDB)
	locker := service.NewMemoryLocker()
	ledger := service.NewLedgerService(testDB, reservationRepo, salesRepo, authz, policy)
	reservations := service.NewReservationService(testDB, reservationRepo, customerRepo, calendarRepo, ledger, authz, locker, service.NewNoopPublisher(), policy)

	stores := NewStoreController(service.NewStoreService(storeRepo, repository.NewUserRepository(testDB), calendarRepo, authz))
	catalog := NewCatalogController(service.NewCatalogService(repository.NewServiceRepository(testDB), storeRepo, repository.NewInventoryRepository(testDB), authz))
	reservationCtrl := NewReservationController(reservations, ledger, policy.Location())
	calendar := NewCalendarController(service.NewCalendarService(testDB, calendarRepo, storeRepo, authz, locker))
	sales := NewSalesController(service.NewReportService(salesRepo, authz, nil))
	customers := NewCustomerController(service.NewCustomerService(customerRepo, authz))
	admin := NewAdminController(ledger)

	api.actor = api.ownerActor()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, api.actor.UserID)
		c.Set(middleware.UserRoleKey, api.actor.Role)
		c.Next()
	})

	router.POST("/stores", stores.CreateStore)
	router.GET("/stores", stores.ListStores)
	router.GET("/stores/:id", stores.GetStore)
	router.DELETE("/stores/:id", stores.DeleteStore)
	router.GET("/stores/:id/staff", stores.ListStaff)
	router.POST("/stores/:id/staff", stores.AddStaff)
	router.DELETE("/stores/:id/staff/:staff_id", stores.RemoveStaff)
	router.GET("/stores/:id/staff/:staff_id/schedule", calendar.GetStaffSchedule)
	router.GET("/stores/:id/services", catalog.ListServices)
	router.POST("/stores/:id/services", catalog.CreateService)
	router.POST("/stores/:id/reservations", reservationCtrl.CreateReservation)
	router.GET("/stores/:id/reservations", reservationCtrl.ListReservations)
	router.PUT("/stores/:id/working-hours", calendar.UpsertWorkingHours)
	router.GET("/stores/:id/working-staff", calendar.GetWorkingStaff)
	router.GET("/stores/:id/calendar", calendar.GetCalendar)
	router.POST("/stores/:id/calendar/:date/rebuild", calendar.RebuildTally)
	router.GET("/stores/:id/sales", sales.GetSummary)
	router.GET("/stores/:id/sales/export", sales.Export)
	router.GET("/stores/:id/sales/daily/:date", sales.GetDailyReport)
	router.GET("/services/:id", catalog.GetService)
	router.GET("/services/:id/availability", catalog.CheckAvailability)
	router.PUT("/services/:id/designers", catalog.SetDesigners)
	router.PUT("/services/:id/inventory", catalog.SetInventory)
	router.GET("/service-categories", catalog.ListCategories)
	router.POST("/service-categories", catalog.CreateCategory)
	router.GET("/reservations/:id", reservationCtrl.GetReservation)
	router.PATCH("/reservations/:id/status", reservationCtrl.UpdateStatus)
	router.POST("/reservations/:id/sales", reservationCtrl.RecordSales)
	router.POST("/reservations/:id/sales/correction", reservationCtrl.CorrectSales)
	router.GET("/customers/:id", customers.GetCustomer)
	router.PATCH("/customers/:id/membership", customers.UpdateMembership)
	router.POST("/admin/ledger/reconcile", admin.ReconcileLedger)

	api.router = router
	return api
}

func (api *salonAPI) ownerActor() service.Principal {
	return service.Principal{UserID: api.owner.ID, Role: model.RoleOwner}
}

func (api *salonAPI) designerActor() service.Principal {
	return service.Principal{UserID: api.designerUser.ID, Role: model.RoleDesigner}
}

func (api *salonAPI) workShift(t *testing.T, date string, startHour, endHour int) {
	require.NoError(t, api.db.Create(&model.WorkingHoursEntry{
		StaffMembershipID: api.designer.ID,
		StoreID:           api.store.ID,
		WorkDate:          date,
		StartTime:         datatypes.NewTime(startHour, 0, 0, 0),
		EndTime:           datatypes.NewTime(endHour, 0, 0, 0),
		Status:            model.WorkStatusWorking,
	}).Error)
}

func (api *salonAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func (api *salonAPI) booking(start string) gin.H {
	return gin.H{
		"service_id":       api.service.ID,
		"staff_id":         api.designer.ID,
		"customer_name":    "홍길동",
		"customer_phone":   "010-1234-5678",
		"customer_gender":  "M",
		"reservation_time": start,
	}
}

