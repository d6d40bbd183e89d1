package repository

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Granularity selects the bucket width of a sales summary.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// prefixLength is the number of leading characters of a YYYY-MM-DD date that form the bucket.
func (g Granularity) prefixLength() (int, bool) {
	switch g {
	case GranularityDaily:
		return 10, true
	case GranularityMonthly:
		return 7, true
	case GranularityYearly:
		return 4, true
	}
	return 0, false
}

func (g Granularity) IsValid() bool {
	_, ok := g.prefixLength()
	return ok
}

// LedgerTotals is a signed sum of ledger lines.
type LedgerTotals struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// IsZero reports whether every component nets out to zero.
func (t LedgerTotals) IsZero() bool {
	return t.Revenue.IsZero() && t.Expenses.IsZero() && t.Profit.IsZero()
}

type SummaryRow struct {
	Bucket   string          `json:"bucket"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

type SalesRepository interface {
	WithTx(tx *gorm.DB) SalesRepository
	EnsureReport(storeID uint, date string) error
	LockReport(storeID uint, date string) (*model.SalesReport, error)
	SaveReportTotals(report *model.SalesReport, totals LedgerTotals) error
	FindReport(storeID uint, date string) (*model.SalesReport, error)

	AppendEntry(entry *model.SalesLedgerEntry) error
	CountEntriesForReservation(reservationID uint) (int64, error)
	SumForReservation(reservationID uint) (LedgerTotals, error)
	LatestPosting(reservationID uint) (*model.SalesLedgerEntry, error)
	SumForStoreDate(storeID uint, date string) (LedgerTotals, error)
	ListEntries(storeID uint, date string) ([]model.SalesLedgerEntry, error)

	Summarize(storeID uint, from, to string, granularity Granularity) ([]SummaryRow, error)
}

type salesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) WithTx(tx *gorm.DB) SalesRepository {
	return &salesRepository{db: tx}
}

// EnsureReport creates an empty report row for (store, date) if none exists.
func (r *salesRepository) EnsureReport(storeID uint, date string) error {
	report := model.SalesReport{
		StoreID:       storeID,
		ReportDate:    date,
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
		NetProfit:     decimal.Zero,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}, {Name: "report_date"}},
		DoNothing: true,
	}).Create(&report).Error
}

func (r *salesRepository) LockReport(storeID uint, date string) (*model.SalesReport, error) {
	var report model.SalesReport
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND report_date = ?", storeID, date).
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *salesRepository) SaveReportTotals(report *model.SalesReport, totals LedgerTotals) error {
	report.TotalRevenue = totals.Revenue
	report.TotalExpenses = totals.Expenses
	report.NetProfit = totals.Profit

	err := r.db.Model(report).Select("total_revenue", "total_expenses", "net_profit", "updated_at").Updates(report).Error
	if err != nil {
		logger.Error("Failed to save sales report totals", err, map[string]interface{}{
			"store_id":    report.StoreID,
			"report_date": report.ReportDate,
		})
		return err
	}
	return nil
}

func (r *salesRepository) FindReport(storeID uint, date string) (*model.SalesReport, error) {
	var report model.SalesReport
	err := r.db.Where("store_id = ? AND report_date = ?", storeID, date).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *salesRepository) AppendEntry(entry *model.SalesLedgerEntry) error {
	logger.Debug("Appending sales ledger entry", map[string]interface{}{
		"reservation_id": entry.ReservationID,
		"kind":           entry.Kind,
		"revenue":        entry.Revenue.String(),
	})

	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to append sales ledger entry", err, map[string]interface{}{
			"reservation_id": entry.ReservationID,
			"kind":           entry.Kind,
		})
		return err
	}
	return nil
}

func (r *salesRepository) CountEntriesForReservation(reservationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.SalesLedgerEntry{}).Where("reservation_id = ?", reservationID).Count(&count).Error
	return count, err
}

const ledgerSumColumns = "COALESCE(SUM(revenue), 0) AS revenue, " +
	"COALESCE(SUM(expenses), 0) AS expenses, " +
	"COALESCE(SUM(profit), 0) AS profit"

// SumForReservation is the net ledger contribution of one reservation.
func (r *salesRepository) SumForReservation(reservationID uint) (LedgerTotals, error) {
	var totals LedgerTotals
	err := r.db.Model(&model.SalesLedgerEntry{}).
		Select(ledgerSumColumns).
		Where("reservation_id = ?", reservationID).
		Scan(&totals).Error
	return totals, err
}

func (r *salesRepository) LatestPosting(reservationID uint) (*model.SalesLedgerEntry, error) {
	var entry model.SalesLedgerEntry
	err := r.db.
		Where("reservation_id = ? AND kind = ?", reservationID, model.LedgerPosting).
		Order("id DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *salesRepository) SumForStoreDate(storeID uint, date string) (LedgerTotals, error) {
	var totals LedgerTotals
	err := r.db.Model(&model.SalesLedgerEntry{}).
		Select(ledgerSumColumns).
		Where("store_id = ? AND report_date = ?", storeID, date).
		Scan(&totals).Error
	return totals, err
}

func (r *salesRepository) ListEntries(storeID uint, date string) ([]model.SalesLedgerEntry, error) {
	var entries []model.SalesLedgerEntry
	err := r.db.
		Where("store_id = ? AND report_date = ?", storeID, date).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Summarize aggregates daily reports of a store into buckets of the given granularity.
func (r *salesRepository) Summarize(storeID uint, from, to string, granularity Granularity) ([]SummaryRow, error) {
	n, ok := granularity.prefixLength()
	if !ok {
		return nil, fmt.Errorf("unknown granularity %q", granularity)
	}
	bucket := fmt.Sprintf("SUBSTR(report_date, 1, %d)", n)

	query, args, err := squirrel.
		Select(
			bucket+" AS bucket",
			"COALESCE(SUM(total_revenue), 0) AS revenue",
			"COALESCE(SUM(total_expenses), 0) AS expenses",
			"COALESCE(SUM(net_profit), 0) AS profit",
		).
		From(model.SalesReport{}.TableName()).
		Where(squirrel.Eq{"store_id": storeID}).
		Where(squirrel.GtOrEq{"report_date": from}).
		Where(squirrel.LtOrEq{"report_date": to}).
		GroupBy(bucket).
		OrderBy("bucket ASC").
		PlaceholderFormat(squirrel.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sales summary query: %w", err)
	}

	var rows []SummaryRow
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		logger.Error("Failed to summarize sales reports", err, map[string]interface{}{
			"store_id":    storeID,
			"granularity": granularity,
		})
		return nil, err
	}
	return rows, nil
}
