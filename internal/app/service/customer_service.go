package service

import (
	"context"
	"errors"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"gorm.io/gorm"
)

type MembershipInput struct {
	IsMembership bool
	Gender       *model.Gender
}

type CustomerService interface {
	GetCustomer(ctx context.Context, actor Principal, customerID uint) (*model.Customer, error)
	UpdateMembership(ctx context.Context, actor Principal, customerID uint, input MembershipInput) (*model.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	authz        Authorizer
}

func NewCustomerService(customerRepo repository.CustomerRepository, authz Authorizer) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		authz:        authz,
	}
}

func (s *customerService) GetCustomer(ctx context.Context, actor Principal, customerID uint) (*model.Customer, error) {
	if err := s.authz.Authorize(ctx, actor, ActionCustomerView, Resource{}); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

func (s *customerService) UpdateMembership(ctx context.Context, actor Principal, customerID uint, input MembershipInput) (*model.Customer, error) {
	if err := s.authz.Authorize(ctx, actor, ActionCustomerManage, Resource{}); err != nil {
		return nil, err
	}
	if input.Gender != nil && *input.Gender != model.GenderMale && *input.Gender != model.GenderFemale {
		return nil, validationError("성별은 M 또는 F 여야 합니다")
	}

	if err := s.customerRepo.UpdateMembership(customerID, input.IsMembership, input.Gender); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	logger.Info("Customer membership updated", map[string]interface{}{
		"customer_id":   customerID,
		"is_membership": input.IsMembership,
		"user_id":       actor.UserID,
	})
	return s.customerRepo.FindByID(customerID)
}
