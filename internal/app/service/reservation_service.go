package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/hairable-backend/config"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/metrics"
	"github.com/ikkim/hairable-backend/internal/queue"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"github.com/ikkim/hairable-backend/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerInput struct {
	Name   string
	Phone  string
	Gender model.Gender
}

type CreateReservationInput struct {
	StoreID         uint
	ServiceID       uint
	StaffID         *uint
	Customer        CustomerInput
	ReservationTime time.Time
	Status          string
}

type StatusUpdateInput struct {
	Status          string
	ReservationTime *time.Time
}

// StatusUpdateResult carries the updated reservation. LedgerWarning is set when the
// status change committed but the sales ledger could not be updated.
type StatusUpdateResult struct {
	Reservation   *model.Reservation
	Changed       bool
	LedgerUpdated bool
	LedgerWarning *RejectionError
}

type ReservationService interface {
	CreateReservation(ctx context.Context, actor Principal, input CreateReservationInput) (*model.Reservation, error)
	UpdateReservationStatus(ctx context.Context, actor Principal, reservationID uint, input StatusUpdateInput) (*StatusUpdateResult, error)
	GetReservation(ctx context.Context, actor Principal, reservationID uint) (*model.Reservation, error)
	ListStoreReservations(ctx context.Context, actor Principal, storeID uint, filter repository.ReservationFilter) ([]model.Reservation, error)
}

type reservationService struct {
	db              *gorm.DB
	reservationRepo repository.ReservationRepository
	customerRepo    repository.CustomerRepository
	calendarRepo    repository.CalendarRepository
	ledger          LedgerService
	authz           Authorizer
	locker          Locker
	publisher       EventPublisher
	policy          config.SchedulingPolicy
}

func NewReservationService(
	db *gorm.DB,
	reservationRepo repository.ReservationRepository,
	customerRepo repository.CustomerRepository,
	calendarRepo repository.CalendarRepository,
	ledger LedgerService,
	authz Authorizer,
	locker Locker,
	publisher EventPublisher,
	policy config.SchedulingPolicy,
) ReservationService {
	return &reservationService{
		db:              db,
		reservationRepo: reservationRepo,
		customerRepo:    customerRepo,
		calendarRepo:    calendarRepo,
		ledger:          ledger,
		authz:           authz,
		locker:          locker,
		publisher:       publisher,
		policy:          policy,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, actor Principal, input CreateReservationInput) (*model.Reservation, error) {
	reservation, err := s.createReservation(ctx, actor, input)
	if err != nil {
		if rejection, ok := AsRejection(err); ok {
			metrics.ReservationsRejected.WithLabelValues(rejection.Code).Inc()
			logger.Warn("Reservation rejected", map[string]interface{}{
				"store_id":   input.StoreID,
				"service_id": input.ServiceID,
				"staff_id":   input.StaffID,
				"reason":     rejection.Code,
			})
		}
		return nil, err
	}

	metrics.ReservationsCreated.WithLabelValues(string(reservation.Status)).Inc()
	publishEvent(ctx, s.publisher, reservationEvent(queue.EventReservationCreated, reservation, ""))
	logger.Info("Reservation created", map[string]interface{}{
		"reservation_id": reservation.ID,
		"store_id":       reservation.StoreID,
		"staff_id":       reservation.StaffMembershipID,
		"date":           reservation.ReservationDate,
		"status":         reservation.Status,
	})

	return s.reservationRepo.FindByID(reservation.ID)
}

func (s *reservationService) createReservation(ctx context.Context, actor Principal, input CreateReservationInput) (*model.Reservation, error) {
	name := strings.TrimSpace(input.Customer.Name)
	phone := strings.TrimSpace(input.Customer.Phone)
	if name == "" || phone == "" {
		return nil, validationError("고객 이름과 전화번호는 필수입니다")
	}
	if input.Customer.Gender != "" && input.Customer.Gender != model.GenderMale && input.Customer.Gender != model.GenderFemale {
		return nil, validationError("성별은 M 또는 F 여야 합니다")
	}
	if input.ReservationTime.IsZero() {
		return nil, validationError("예약 시간은 필수입니다")
	}
	status := model.ReservationPending
	if input.Status != "" {
		parsed, ok := model.ParseReservationStatus(input.Status)
		if !ok || !parsed.IsActive() {
			return nil, ErrInvalidStatus
		}
		status = parsed
	}

	if err := s.authz.Authorize(ctx, actor, ActionReservationCreate, Resource{StoreID: input.StoreID}); err != nil {
		return nil, err
	}

	if input.StaffID != nil {
		release, err := acquireLock(ctx, s.locker, staffBookingKey(*input.StaffID))
		if err != nil {
			return nil, err
		}
		defer release()
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	fail := func(err error) (*model.Reservation, error) {
		tx.Rollback()
		return nil, err
	}

	var store model.Store
	if err := tx.Select("id").First(&store, input.StoreID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrStoreNotFound)
		}
		return fail(err)
	}

	var service model.Service
	if err := tx.Preload("Inventory.InventoryItem").First(&service, input.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrServiceNotFound)
		}
		return fail(err)
	}
	if service.StoreID != nil && *service.StoreID != input.StoreID {
		return fail(ErrServiceNotFound)
	}

	start := input.ReservationTime.UTC()
	loc := s.policy.Location()
	reservationDate := util.FormatDate(start, loc)

	var staff *model.StaffMembership
	if input.StaffID != nil {
		membership, err := s.checkStaffEligibility(tx, *input.StaffID, &service, input.StoreID)
		if err != nil {
			return fail(err)
		}
		staff = membership

		if err := s.checkStaffSchedule(tx, staff.ID, start, service.DurationMinutes, 0); err != nil {
			return fail(err)
		}
	}

	if s.policy.EnforceInventoryAtBooking && len(service.ShortInventory()) > 0 {
		return fail(ErrInventoryShortage)
	}

	customers := s.customerRepo.WithTx(tx)
	customer, _, err := customers.GetOrCreate(name, phone, input.Customer.Gender)
	if err != nil {
		return fail(err)
	}
	if err := customers.IncrementReservationCount(customer.ID); err != nil {
		return fail(err)
	}

	gender := input.Customer.Gender
	if gender == "" {
		gender = customer.Gender
	}
	reservation := &model.Reservation{
		StoreID:         input.StoreID,
		ServiceID:       service.ID,
		CustomerID:      customer.ID,
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerGender:  gender,
		ReservationTime: start,
		ReservationDate: reservationDate,
		DurationMinutes: service.DurationMinutes,
		Status:          status,
	}
	if staff != nil {
		reservation.StaffMembershipID = &staff.ID
	}
	if err := s.reservationRepo.WithTx(tx).Create(reservation); err != nil {
		return fail(err)
	}

	if service.StoreID == nil {
		bindTo := input.StoreID
		if staff != nil {
			bindTo = staff.StoreID
		}
		err := tx.Model(&model.Service{}).
			Where("id = ? AND store_id IS NULL", service.ID).
			Update("store_id", bindTo).Error
		if err != nil {
			return fail(err)
		}
		logger.Info("Service bound to store by first reservation", map[string]interface{}{
			"service_id": service.ID,
			"store_id":   bindTo,
		})
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit reservation", err, map[string]interface{}{
			"store_id":   input.StoreID,
			"service_id": input.ServiceID,
		})
		return nil, err
	}
	return reservation, nil
}

// checkStaffEligibility locks the membership row and verifies store and service eligibility.
func (s *reservationService) checkStaffEligibility(tx *gorm.DB, staffID uint, service *model.Service, storeID uint) (*model.StaffMembership, error) {
	var staff model.StaffMembership
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&staff, staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	if service.StoreID != nil && staff.StoreID != *service.StoreID {
		return nil, ErrStaffWrongStore
	}
	if staff.StoreID != storeID {
		return nil, ErrStaffNotInStore
	}
	if !staff.Role.CanPerformServices() {
		return nil, ErrStaffNotEligible
	}

	var eligible int64
	err := tx.Table("service_designers").
		Where("service_id = ? AND staff_membership_id = ?", service.ID, staff.ID).
		Count(&eligible).Error
	if err != nil {
		return nil, err
	}
	if eligible == 0 {
		return nil, ErrStaffNotEligible
	}
	return &staff, nil
}

// checkStaffSchedule rejects a slot that overlaps another non-cancelled reservation of the staff member
// or that does not start inside their shift. excludeID skips the reservation being rescheduled.
func (s *reservationService) checkStaffSchedule(tx *gorm.DB, staffID uint, start time.Time, durationMinutes int, excludeID uint) error {
	loc := s.policy.Location()
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	day := util.FormatDate(start, loc)

	// a reservation can only reach into this slot from the neighbouring business days
	dates := []string{day}
	for _, offset := range []int{-1, 1} {
		neighbour, err := util.ShiftDate(day, offset)
		if err != nil {
			return err
		}
		dates = append(dates, neighbour)
	}

	existing, err := s.reservationRepo.WithTx(tx).FindBookedForStaff(staffID, dates, excludeID)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.Status.BlocksSlot() && other.Overlaps(start, end) {
			return ErrReservationOverlap
		}
	}

	entry, err := s.calendarRepo.WithTx(tx).FindEntry(staffID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffOffDuty
		}
		return err
	}
	if entry.Status != model.WorkStatusWorking {
		return ErrStaffOffDuty
	}

	startOfDay := util.TimeOfDay(start, loc)
	if !entry.Covers(startOfDay) {
		return ErrOutsideWorkingHours
	}
	if s.policy.RequireEndWithinShift && !entry.Covers(startOfDay+end.Sub(start)) {
		return ErrOutsideWorkingHours
	}
	return nil
}

func (s *reservationService) UpdateReservationStatus(ctx context.Context, actor Principal, reservationID uint, input StatusUpdateInput) (*StatusUpdateResult, error) {
	current, err := s.reservationRepo.FindByID(reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, ActionReservationUpdate, Resource{StoreID: current.StoreID}); err != nil {
		return nil, err
	}

	next := current.Status
	if strings.TrimSpace(input.Status) != "" {
		parsed, ok := model.ParseReservationStatus(input.Status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		next = parsed
	}

	if input.ReservationTime != nil && current.StaffMembershipID != nil {
		release, err := acquireLock(ctx, s.locker, staffBookingKey(*current.StaffMembershipID))
		if err != nil {
			return nil, err
		}
		defer release()
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	fail := func(err error) (*StatusUpdateResult, error) {
		tx.Rollback()
		return nil, err
	}

	reservations := s.reservationRepo.WithTx(tx)
	reservation, err := reservations.FindByIDForUpdate(reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrReservationNotFound)
		}
		return fail(err)
	}
	previous := reservation.Status

	if previous.IsTerminal() {
		return fail(ErrInvalidTransition)
	}
	if next == previous && input.ReservationTime == nil {
		tx.Rollback()
		return &StatusUpdateResult{Reservation: current}, nil
	}
	if next != previous && !previous.CanTransitionTo(next) {
		return fail(ErrInvalidTransition)
	}

	if input.ReservationTime != nil {
		if previous != model.ReservationConfirmed || next != model.ReservationConfirmed {
			return fail(ErrRescheduleNotAllowed)
		}
		start := input.ReservationTime.UTC()
		if reservation.StaffMembershipID != nil {
			if err := s.checkStaffSchedule(tx, *reservation.StaffMembershipID, start, reservation.DurationMinutes, reservation.ID); err != nil {
				if rejection, ok := AsRejection(err); ok {
					metrics.ReservationsRejected.WithLabelValues(rejection.Code).Inc()
				}
				return fail(err)
			}
		}
		reservation.ReservationTime = start
		reservation.ReservationDate = util.FormatDate(start, s.policy.Location())
	}

	reservation.Status = next
	if next == model.ReservationCompleted {
		now := time.Now().UTC()
		reservation.CompletedAt = &now
	}
	if err := reservations.Update(reservation); err != nil {
		return fail(err)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit reservation status", err, map[string]interface{}{
			"reservation_id": reservationID,
		})
		return nil, err
	}

	eventType := queue.EventReservationStatusChanged
	if next == previous {
		eventType = queue.EventReservationRescheduled
	} else {
		metrics.StatusTransitions.WithLabelValues(string(previous), string(next)).Inc()
	}
	publishEvent(ctx, s.publisher, reservationEvent(eventType, reservation, previous))
	logger.Info("Reservation updated", map[string]interface{}{
		"reservation_id":  reservation.ID,
		"previous_status": previous,
		"status":          next,
		"rescheduled":     input.ReservationTime != nil,
	})

	result := &StatusUpdateResult{Changed: true}
	if next == model.ReservationCompleted {
		if _, err := s.ledger.RecordCompletion(ctx, reservation.ID); err != nil {
			metrics.LedgerFailures.Inc()
			logger.Error("Sales ledger update failed after completion", err, map[string]interface{}{
				"reservation_id": reservation.ID,
			})
			result.LedgerWarning = ErrLedgerPending
		} else {
			result.LedgerUpdated = true
		}
	}

	result.Reservation, err = s.reservationRepo.FindByID(reservation.ID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *reservationService) GetReservation(ctx context.Context, actor Principal, reservationID uint) (*model.Reservation, error) {
	reservation, err := s.reservationRepo.FindByID(reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, ActionReservationView, Resource{StoreID: reservation.StoreID}); err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *reservationService) ListStoreReservations(ctx context.Context, actor Principal, storeID uint, filter repository.ReservationFilter) ([]model.Reservation, error) {
	if err := s.authz.Authorize(ctx, actor, ActionReservationView, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	if filter.Date != "" {
		day, err := util.ParseDate(filter.Date)
		if err != nil {
			return nil, formatError("날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
		}
		filter.Date = day
	}
	return s.reservationRepo.ListByStore(storeID, filter)
}
