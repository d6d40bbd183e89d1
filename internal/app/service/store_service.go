package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	apperrors "github.com/ikkim/hairable-backend/internal/errors"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreInput struct {
	Name    string
	Phone   string
	Address string
}

type StaffInput struct {
	UserID   uint
	Role     model.StaffRole
	JoinedAt *time.Time
}

type StoreService interface {
	CreateStore(ctx context.Context, actor Principal, input StoreInput) (*model.Store, error)
	ListStores(ctx context.Context, actor Principal) ([]model.Store, error)
	GetStore(ctx context.Context, actor Principal, storeID uint) (*model.Store, error)
	DeleteStore(ctx context.Context, actor Principal, storeID uint) error

	AddStaff(ctx context.Context, actor Principal, storeID uint, input StaffInput) (*model.StaffMembership, error)
	RemoveStaff(ctx context.Context, actor Principal, storeID, staffID uint) error
	ListStaff(ctx context.Context, actor Principal, storeID uint) ([]model.StaffMembership, error)
}

type storeService struct {
	storeRepo    repository.StoreRepository
	userRepo     repository.UserRepository
	calendarRepo repository.CalendarRepository
	authz        Authorizer
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	calendarRepo repository.CalendarRepository,
	authz Authorizer,
) StoreService {
	return &storeService{
		storeRepo:    storeRepo,
		userRepo:     userRepo,
		calendarRepo: calendarRepo,
		authz:        authz,
	}
}

func (s *storeService) CreateStore(ctx context.Context, actor Principal, input StoreInput) (*model.Store, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("매장 이름은 필수입니다")
	}

	store := &model.Store{
		Name:    name,
		OwnerID: actor.UserID,
		Phone:   strings.TrimSpace(input.Phone),
		Address: strings.TrimSpace(input.Address),
	}
	if err := s.storeRepo.Create(store); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrStoreNameExists
		}
		return nil, err
	}

	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": store.OwnerID,
		"name":     store.Name,
	})
	return store, nil
}

func (s *storeService) ListStores(ctx context.Context, actor Principal) ([]model.Store, error) {
	return s.storeRepo.ListForUser(actor.UserID)
}

func (s *storeService) GetStore(ctx context.Context, actor Principal, storeID uint) (*model.Store, error) {
	if err := s.authz.Authorize(ctx, actor, ActionStoreView, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (s *storeService) DeleteStore(ctx context.Context, actor Principal, storeID uint) error {
	if err := s.authz.Authorize(ctx, actor, ActionStoreDelete, Resource{StoreID: storeID}); err != nil {
		return err
	}

	if err := s.storeRepo.Delete(storeID); err != nil {
		return err
	}

	logger.Info("Store deleted", map[string]interface{}{
		"store_id": storeID,
		"user_id":  actor.UserID,
	})
	return nil
}

func (s *storeService) AddStaff(ctx context.Context, actor Principal, storeID uint, input StaffInput) (*model.StaffMembership, error) {
	if err := s.authz.Authorize(ctx, actor, ActionStaffManage, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, ErrInvalidStaffRole
	}

	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	joinedAt := time.Now()
	if input.JoinedAt != nil {
		joinedAt = *input.JoinedAt
	}

	membership := &model.StaffMembership{
		StoreID:  storeID,
		UserID:   input.UserID,
		Role:     input.Role,
		JoinedAt: joinedAt,
	}
	if err := s.storeRepo.CreateMembership(membership); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrStaffExists
		}
		return nil, err
	}

	logger.Info("Staff added to store", map[string]interface{}{
		"store_id": storeID,
		"staff_id": membership.ID,
		"user_id":  membership.UserID,
		"role":     membership.Role,
	})
	return s.storeRepo.FindMembershipByID(membership.ID)
}

// RemoveStaff deletes the membership and refreshes the calendar tallies it contributed to.
func (s *storeService) RemoveStaff(ctx context.Context, actor Principal, storeID, staffID uint) error {
	if err := s.authz.Authorize(ctx, actor, ActionStaffManage, Resource{StoreID: storeID}); err != nil {
		return err
	}

	membership, err := s.storeRepo.FindMembershipByID(staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}
	if membership.StoreID != storeID {
		return ErrStaffNotInStore
	}

	entries, err := s.calendarRepo.ListEntries(staffID, "0000-01-01", "9999-12-31")
	if err != nil {
		return err
	}

	if err := s.storeRepo.DeleteMembership(staffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}

	for _, entry := range entries {
		if _, err := s.calendarRepo.RecomputeTally(storeID, entry.WorkDate); err != nil {
			logger.Warn("Failed to refresh tally after staff removal", map[string]interface{}{
				"store_id":  storeID,
				"work_date": entry.WorkDate,
				"error":     err.Error(),
			})
		}
	}

	logger.Info("Staff removed from store", map[string]interface{}{
		"store_id": storeID,
		"staff_id": staffID,
	})
	return nil
}

func (s *storeService) ListStaff(ctx context.Context, actor Principal, storeID uint) ([]model.StaffMembership, error) {
	if err := s.authz.Authorize(ctx, actor, ActionStoreView, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	return s.storeRepo.ListMemberships(storeID)
}
