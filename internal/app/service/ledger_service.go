package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ikkim/hairable-backend/config"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/metrics"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LedgerResult is the state of the daily report after a ledger operation.
type LedgerResult struct {
	Report   *model.SalesReport       `json:"report"`
	Appended []model.SalesLedgerEntry `json:"appended"`
}

type LedgerService interface {
	RecordCompletion(ctx context.Context, reservationID uint) (*LedgerResult, error)
	RetryCompletion(ctx context.Context, actor Principal, reservationID uint) (*LedgerResult, error)
	CorrectCompletion(ctx context.Context, actor Principal, reservationID uint) (*LedgerResult, error)
	ReconcilePending(ctx context.Context, limit int) (int, error)
}

type ledgerService struct {
	db              *gorm.DB
	reservationRepo repository.ReservationRepository
	salesRepo       repository.SalesRepository
	authz           Authorizer
	policy          config.SchedulingPolicy
}

func NewLedgerService(
	db *gorm.DB,
	reservationRepo repository.ReservationRepository,
	salesRepo repository.SalesRepository,
	authz Authorizer,
	policy config.SchedulingPolicy,
) LedgerService {
	return &ledgerService{
		db:              db,
		reservationRepo: reservationRepo,
		salesRepo:       salesRepo,
		authz:           authz,
		policy:          policy,
	}
}

// RecordCompletion posts a completed reservation to the ledger once. Repeated calls append nothing.
func (s *ledgerService) RecordCompletion(ctx context.Context, reservationID uint) (*LedgerResult, error) {
	return s.post(ctx, reservationID, false)
}

func (s *ledgerService) RetryCompletion(ctx context.Context, actor Principal, reservationID uint) (*LedgerResult, error) {
	if err := s.authorizeFor(ctx, actor, reservationID); err != nil {
		return nil, err
	}
	return s.post(ctx, reservationID, false)
}

// CorrectCompletion re-prices the reservation against the current catalog and membership and,
// when the result differs, reverses the previous net contribution and posts the new one.
func (s *ledgerService) CorrectCompletion(ctx context.Context, actor Principal, reservationID uint) (*LedgerResult, error) {
	if err := s.authorizeFor(ctx, actor, reservationID); err != nil {
		return nil, err
	}
	return s.post(ctx, reservationID, true)
}

// ReconcilePending records completed reservations that have no ledger lines yet.
func (s *ledgerService) ReconcilePending(ctx context.Context, limit int) (int, error) {
	pending, err := s.reservationRepo.FindCompletedWithoutLedger(limit)
	if err != nil {
		return 0, err
	}

	recorded := 0
	for _, reservation := range pending {
		if _, err := s.post(ctx, reservation.ID, false); err != nil {
			logger.Warn("Failed to reconcile reservation", map[string]interface{}{
				"reservation_id": reservation.ID,
				"error":          err.Error(),
			})
			continue
		}
		recorded++
	}

	if len(pending) > 0 {
		logger.Info("Sales ledger reconciled", map[string]interface{}{
			"pending":  len(pending),
			"recorded": recorded,
		})
	}
	return recorded, nil
}

func (s *ledgerService) authorizeFor(ctx context.Context, actor Principal, reservationID uint) error {
	reservation, err := s.reservationRepo.FindByID(reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return err
	}
	return s.authz.Authorize(ctx, actor, ActionSalesRecord, Resource{StoreID: reservation.StoreID})
}

func (s *ledgerService) post(ctx context.Context, reservationID uint, correct bool) (*LedgerResult, error) {
	result := &LedgerResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := s.reservationRepo.WithTx(tx).FindForLedger(reservationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if reservation.Status != model.ReservationCompleted {
			return ErrReservationNotCompleted
		}

		sales := s.salesRepo.WithTx(tx)
		if err := sales.EnsureReport(reservation.StoreID, reservation.ReservationDate); err != nil {
			return err
		}
		report, err := sales.LockReport(reservation.StoreID, reservation.ReservationDate)
		if err != nil {
			return err
		}

		existing, err := sales.CountEntriesForReservation(reservation.ID)
		if err != nil {
			return err
		}

		posting, err := s.price(reservation)
		if err != nil {
			return err
		}

		switch {
		case existing == 0:
			if err := sales.AppendEntry(posting); err != nil {
				return err
			}
			result.Appended = append(result.Appended, *posting)

		case correct:
			net, err := sales.SumForReservation(reservation.ID)
			if err != nil {
				return err
			}
			if net.Revenue.Equal(posting.Revenue) && net.Expenses.Equal(posting.Expenses) && net.Profit.Equal(posting.Profit) {
				break
			}
			if !net.IsZero() {
				reversal, err := s.reversal(sales, reservation, net)
				if err != nil {
					return err
				}
				if err := sales.AppendEntry(reversal); err != nil {
					return err
				}
				result.Appended = append(result.Appended, *reversal)
			}
			if err := sales.AppendEntry(posting); err != nil {
				return err
			}
			result.Appended = append(result.Appended, *posting)
		}

		totals, err := sales.SumForStoreDate(reservation.StoreID, reservation.ReservationDate)
		if err != nil {
			return err
		}
		if err := sales.SaveReportTotals(report, totals); err != nil {
			return err
		}
		result.Report = report
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, entry := range result.Appended {
		metrics.LedgerEntries.WithLabelValues(string(entry.Kind)).Inc()
	}
	logger.Info("Sales ledger updated", map[string]interface{}{
		"reservation_id": reservationID,
		"appended":       len(result.Appended),
		"store_id":       result.Report.StoreID,
		"report_date":    result.Report.ReportDate,
		"total_revenue":  result.Report.TotalRevenue.String(),
	})
	return result, nil
}

// price computes the posting for the reservation with the current catalog and membership status.
func (s *ledgerService) price(reservation *model.Reservation) (*model.SalesLedgerEntry, error) {
	if reservation.Service == nil {
		return nil, ErrServiceNotFound
	}
	service := reservation.Service

	isMember := reservation.Customer != nil && reservation.Customer.IsMembership
	rate := decimal.Zero
	if isMember {
		rate = decimal.NewFromFloat(s.policy.MembershipDiscountRate)
	}
	revenue := service.Price.Mul(decimal.NewFromInt(1).Sub(rate)).Round(2)

	lines := make([]model.InventoryCostLine, 0, len(service.Inventory))
	expenses := decimal.Zero
	for _, req := range service.Inventory {
		if req.InventoryItem == nil {
			continue
		}
		cost := req.InventoryItem.PurchasePrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
		expenses = expenses.Add(cost)
		lines = append(lines, model.InventoryCostLine{
			InventoryItemID: req.InventoryItemID,
			Name:            req.InventoryItem.Name,
			Quantity:        req.Quantity,
			UnitCost:        req.InventoryItem.PurchasePrice,
			Cost:            cost,
		})
	}

	detail, err := json.Marshal(lines)
	if err != nil {
		return nil, err
	}

	return &model.SalesLedgerEntry{
		ReservationID:   reservation.ID,
		StoreID:         reservation.StoreID,
		ReportDate:      reservation.ReservationDate,
		Kind:            model.LedgerPosting,
		Revenue:         revenue,
		Expenses:        expenses,
		Profit:          revenue.Sub(expenses),
		ServicePrice:    service.Price,
		DiscountRate:    rate,
		IsMembership:    isMember,
		InventoryDetail: datatypes.JSON(detail),
	}, nil
}

func (s *ledgerService) reversal(sales repository.SalesRepository, reservation *model.Reservation, net repository.LedgerTotals) (*model.SalesLedgerEntry, error) {
	entry := &model.SalesLedgerEntry{
		ReservationID: reservation.ID,
		StoreID:       reservation.StoreID,
		ReportDate:    reservation.ReservationDate,
		Kind:          model.LedgerReversal,
		Revenue:       net.Revenue.Neg(),
		Expenses:      net.Expenses.Neg(),
		Profit:        net.Profit.Neg(),
		ServicePrice:  decimal.Zero,
		DiscountRate:  decimal.Zero,
	}

	last, err := sales.LatestPosting(reservation.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if last != nil {
		entry.ReversesEntryID = &last.ID
		entry.ServicePrice = last.ServicePrice
		entry.DiscountRate = last.DiscountRate
		entry.IsMembership = last.IsMembership
		entry.InventoryDetail = last.InventoryDetail
	}
	return entry, nil
}
