package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	apperrors "github.com/ikkim/hairable-backend/internal/errors"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryRequirement struct {
	InventoryItemID uint `json:"inventory_item_id"`
	Quantity        int  `json:"quantity"`
}

type ServiceInput struct {
	Name            string
	Price           decimal.Decimal
	DurationMinutes int
	CategoryID      *uint
	DesignerIDs     []uint
	Inventory       []InventoryRequirement
}

// ServiceAvailability 서비스 예약 가능 여부
type ServiceAvailability struct {
	ServiceID     uint                     `json:"service_id"`
	Available     bool                     `json:"available"`
	InStock       bool                     `json:"in_stock"`
	DesignerCount int64                    `json:"designer_count"`
	Shortages     []model.ServiceInventory `json:"shortages,omitempty"`
}

type CatalogService interface {
	CreateCategory(ctx context.Context, actor Principal, name string) (*model.ServiceCategory, error)
	ListCategories(ctx context.Context) ([]model.ServiceCategory, error)

	CreateService(ctx context.Context, actor Principal, storeID uint, input ServiceInput) (*model.Service, error)
	GetService(ctx context.Context, actor Principal, serviceID uint) (*model.Service, error)
	ListServices(ctx context.Context, actor Principal, storeID uint) ([]model.Service, error)
	SetServiceDesigners(ctx context.Context, actor Principal, serviceID uint, staffIDs []uint) (*model.Service, error)
	SetServiceInventory(ctx context.Context, actor Principal, serviceID uint, requirements []InventoryRequirement) (*model.Service, error)

	IsServiceAvailable(ctx context.Context, serviceID uint) (bool, error)
	CheckAvailability(ctx context.Context, actor Principal, serviceID uint) (*ServiceAvailability, error)
}

type catalogService struct {
	serviceRepo   repository.ServiceRepository
	storeRepo     repository.StoreRepository
	inventoryRepo repository.InventoryRepository
	authz         Authorizer
}

func NewCatalogService(
	serviceRepo repository.ServiceRepository,
	storeRepo repository.StoreRepository,
	inventoryRepo repository.InventoryRepository,
	authz Authorizer,
) CatalogService {
	return &catalogService{
		serviceRepo:   serviceRepo,
		storeRepo:     storeRepo,
		inventoryRepo: inventoryRepo,
		authz:         authz,
	}
}

func (s *catalogService) CreateCategory(ctx context.Context, actor Principal, name string) (*model.ServiceCategory, error) {
	if err := s.authz.Authorize(ctx, actor, ActionCatalogManage, Resource{}); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("카테고리명은 필수입니다")
	}

	category := &model.ServiceCategory{Name: name}
	if err := s.serviceRepo.CreateCategory(category); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, reject(KindConflict, apperrors.ResourceAlreadyExists, "이미 존재하는 카테고리입니다")
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.ServiceCategory, error) {
	return s.serviceRepo.ListCategories()
}

func (s *catalogService) CreateService(ctx context.Context, actor Principal, storeID uint, input ServiceInput) (*model.Service, error) {
	if err := s.authz.Authorize(ctx, actor, ActionCatalogManage, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("서비스명은 필수입니다")
	}
	if input.Price.IsNegative() {
		return nil, validationError("서비스 가격은 0 이상이어야 합니다")
	}
	if input.DurationMinutes <= 0 {
		return nil, validationError("소요 시간은 1분 이상이어야 합니다")
	}
	if input.CategoryID != nil {
		if _, err := s.serviceRepo.FindCategoryByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}
	if err := s.validateDesigners(storeID, input.DesignerIDs); err != nil {
		return nil, err
	}
	requirements, err := s.buildRequirements(input.Inventory)
	if err != nil {
		return nil, err
	}

	service := &model.Service{
		StoreID:         &storeID,
		CategoryID:      input.CategoryID,
		Name:            name,
		Price:           input.Price,
		DurationMinutes: input.DurationMinutes,
	}
	if err := s.serviceRepo.Create(service); err != nil {
		return nil, err
	}
	if len(input.DesignerIDs) > 0 {
		if err := s.serviceRepo.ReplaceDesigners(service.ID, input.DesignerIDs); err != nil {
			return nil, err
		}
	}
	if len(requirements) > 0 {
		if err := s.serviceRepo.ReplaceInventory(service.ID, requirements); err != nil {
			return nil, err
		}
	}

	logger.Info("Service created", map[string]interface{}{
		"service_id": service.ID,
		"store_id":   storeID,
		"name":       service.Name,
	})
	return s.serviceRepo.FindByID(service.ID)
}

func (s *catalogService) GetService(ctx context.Context, actor Principal, serviceID uint) (*model.Service, error) {
	service, err := s.findService(serviceID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, ActionCatalogView, Resource{StoreID: storeOf(service)}); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *catalogService) ListServices(ctx context.Context, actor Principal, storeID uint) ([]model.Service, error) {
	if err := s.authz.Authorize(ctx, actor, ActionCatalogView, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	return s.serviceRepo.ListByStore(storeID)
}

// SetServiceDesigners replaces the eligible designer set. An unbound service takes the store of its designers.
func (s *catalogService) SetServiceDesigners(ctx context.Context, actor Principal, serviceID uint, staffIDs []uint) (*model.Service, error) {
	service, err := s.findService(serviceID)
	if err != nil {
		return nil, err
	}

	storeID := storeOf(service)
	if storeID == 0 && len(staffIDs) > 0 {
		first, err := s.storeRepo.FindMembershipByID(staffIDs[0])
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStaffNotFound
			}
			return nil, err
		}
		storeID = first.StoreID
	}
	if err := s.authz.Authorize(ctx, actor, ActionCatalogManage, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	if err := s.validateDesigners(storeID, staffIDs); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.ReplaceDesigners(serviceID, staffIDs); err != nil {
		return nil, err
	}
	return s.serviceRepo.FindByID(serviceID)
}

func (s *catalogService) SetServiceInventory(ctx context.Context, actor Principal, serviceID uint, requirements []InventoryRequirement) (*model.Service, error) {
	service, err := s.findService(serviceID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, ActionCatalogManage, Resource{StoreID: storeOf(service)}); err != nil {
		return nil, err
	}

	rows, err := s.buildRequirements(requirements)
	if err != nil {
		return nil, err
	}
	if err := s.serviceRepo.ReplaceInventory(serviceID, rows); err != nil {
		return nil, err
	}
	return s.serviceRepo.FindByID(serviceID)
}

// IsServiceAvailable: every required item in stock and at least one eligible designer.
func (s *catalogService) IsServiceAvailable(ctx context.Context, serviceID uint) (bool, error) {
	availability, err := s.availability(serviceID)
	if err != nil {
		return false, err
	}
	return availability.Available, nil
}

func (s *catalogService) CheckAvailability(ctx context.Context, actor Principal, serviceID uint) (*ServiceAvailability, error) {
	service, err := s.findService(serviceID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, ActionCatalogView, Resource{StoreID: storeOf(service)}); err != nil {
		return nil, err
	}
	return s.availability(serviceID)
}

func (s *catalogService) availability(serviceID uint) (*ServiceAvailability, error) {
	service, err := s.findService(serviceID)
	if err != nil {
		return nil, err
	}
	designers, err := s.serviceRepo.CountDesigners(serviceID)
	if err != nil {
		return nil, err
	}

	shortages := service.ShortInventory()
	return &ServiceAvailability{
		ServiceID:     serviceID,
		InStock:       len(shortages) == 0,
		DesignerCount: designers,
		Shortages:     shortages,
		Available:     len(shortages) == 0 && designers > 0,
	}, nil
}

func (s *catalogService) findService(serviceID uint) (*model.Service, error) {
	service, err := s.serviceRepo.FindByID(serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return service, nil
}

func (s *catalogService) validateDesigners(storeID uint, staffIDs []uint) error {
	for _, id := range staffIDs {
		membership, err := s.storeRepo.FindMembershipByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStaffNotFound
			}
			return err
		}
		if membership.StoreID != storeID {
			return ErrStaffNotInStore
		}
		if !membership.Role.CanPerformServices() {
			return ErrStaffNotEligible
		}
	}
	return nil
}

func (s *catalogService) buildRequirements(input []InventoryRequirement) ([]model.ServiceInventory, error) {
	ids := make([]uint, 0, len(input))
	for _, req := range input {
		if req.Quantity <= 0 {
			return nil, validationError("재고 소모 수량은 1 이상이어야 합니다")
		}
		ids = append(ids, req.InventoryItemID)
	}

	items, err := s.inventoryRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	known := make(map[uint]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
	}

	rows := make([]model.ServiceInventory, 0, len(input))
	for _, req := range input {
		if !known[req.InventoryItemID] {
			return nil, ErrInventoryNotFound
		}
		rows = append(rows, model.ServiceInventory{
			InventoryItemID: req.InventoryItemID,
			Quantity:        req.Quantity,
		})
	}
	return rows, nil
}

func storeOf(service *model.Service) uint {
	if service.StoreID == nil {
		return 0
	}
	return *service.StoreID
}
