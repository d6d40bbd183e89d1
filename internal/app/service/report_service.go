package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/storage"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"github.com/ikkim/hairable-backend/pkg/util"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportArchiver stores exported workbooks. *storage.S3Storage implements it.
type ReportArchiver interface {
	UploadReport(ctx context.Context, key string, body []byte) (*storage.ArchivedReport, error)
}

type SalesQuery struct {
	StoreID     uint
	From        string
	To          string
	Granularity repository.Granularity
}

// DailyReport 일별 매출 집계와 원장 내역
type DailyReport struct {
	StoreID       uint                     `json:"store_id"`
	ReportDate    string                   `json:"report_date"`
	TotalRevenue  decimal.Decimal          `json:"total_revenue"`
	TotalExpenses decimal.Decimal          `json:"total_expenses"`
	NetProfit     decimal.Decimal          `json:"net_profit"`
	Entries       []model.SalesLedgerEntry `json:"entries"`
}

type SalesExport struct {
	FileName string
	Content  []byte
	Archive  *storage.ArchivedReport
}

type ReportService interface {
	GetSalesSummary(ctx context.Context, actor Principal, query SalesQuery) ([]repository.SummaryRow, error)
	GetDailyReport(ctx context.Context, actor Principal, storeID uint, date string) (*DailyReport, error)
	ExportSalesSummary(ctx context.Context, actor Principal, query SalesQuery, archive bool) (*SalesExport, error)
}

type reportService struct {
	salesRepo repository.SalesRepository
	authz     Authorizer
	archiver  ReportArchiver
}

// NewReportService builds the reporting service. archiver may be nil when no object storage is configured.
func NewReportService(salesRepo repository.SalesRepository, authz Authorizer, archiver ReportArchiver) ReportService {
	return &reportService{
		salesRepo: salesRepo,
		authz:     authz,
		archiver:  archiver,
	}
}

func (s *reportService) GetSalesSummary(ctx context.Context, actor Principal, query SalesQuery) ([]repository.SummaryRow, error) {
	if err := s.authz.Authorize(ctx, actor, ActionSalesView, Resource{StoreID: query.StoreID}); err != nil {
		return nil, err
	}
	return s.summarize(query)
}

func (s *reportService) summarize(query SalesQuery) ([]repository.SummaryRow, error) {
	if query.Granularity == "" {
		query.Granularity = repository.GranularityDaily
	}
	if !query.Granularity.IsValid() {
		return nil, ErrInvalidGranularity
	}
	from, to, err := parseDateRange(query.From, query.To)
	if err != nil {
		return nil, err
	}

	rows, err := s.salesRepo.Summarize(query.StoreID, from, to, query.Granularity)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.SummaryRow{}
	}
	return rows, nil
}

func (s *reportService) GetDailyReport(ctx context.Context, actor Principal, storeID uint, date string) (*DailyReport, error) {
	if err := s.authz.Authorize(ctx, actor, ActionSalesView, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	day, err := util.ParseDate(date)
	if err != nil {
		return nil, formatError("날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}

	daily := &DailyReport{
		StoreID:       storeID,
		ReportDate:    day,
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
		NetProfit:     decimal.Zero,
	}

	report, err := s.salesRepo.FindReport(storeID, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if report != nil {
		daily.TotalRevenue = report.TotalRevenue
		daily.TotalExpenses = report.TotalExpenses
		daily.NetProfit = report.NetProfit
	}

	daily.Entries, err = s.salesRepo.ListEntries(storeID, day)
	if err != nil {
		return nil, err
	}
	return daily, nil
}

var exportHeaders = []string{"기간", "매출", "지출", "순이익"}

// ExportSalesSummary renders the summary as an xlsx workbook and optionally archives it.
func (s *reportService) ExportSalesSummary(ctx context.Context, actor Principal, query SalesQuery, archive bool) (*SalesExport, error) {
	if err := s.authz.Authorize(ctx, actor, ActionSalesView, Resource{StoreID: query.StoreID}); err != nil {
		return nil, err
	}
	rows, err := s.summarize(query)
	if err != nil {
		return nil, err
	}
	if query.Granularity == "" {
		query.Granularity = repository.GranularityDaily
	}

	content, err := renderSalesWorkbook(rows)
	if err != nil {
		logger.Error("Failed to render sales workbook", err, map[string]interface{}{
			"store_id": query.StoreID,
		})
		return nil, ErrExportFailed
	}

	name := fmt.Sprintf("sales-%s-%s-%s", query.Granularity, query.From, query.To)
	export := &SalesExport{
		FileName: name + ".xlsx",
		Content:  content,
	}

	if archive {
		if s.archiver == nil {
			logger.Warn("Sales export archive requested but no storage is configured", map[string]interface{}{
				"store_id": query.StoreID,
			})
			return export, nil
		}
		archived, err := s.archiver.UploadReport(ctx, storage.ReportKey(query.StoreID, name), content)
		if err != nil {
			return nil, ErrExportFailed
		}
		export.Archive = archived
	}
	return export, nil
}

func renderSalesWorkbook(rows []repository.SummaryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "매출"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	total := repository.SummaryRow{Bucket: "합계"}
	for i, row := range rows {
		if err := writeSummaryRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
		total.Revenue = total.Revenue.Add(row.Revenue)
		total.Expenses = total.Expenses.Add(row.Expenses)
		total.Profit = total.Profit.Add(row.Profit)
	}
	if err := writeSummaryRow(f, sheet, len(rows)+2, total); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummaryRow(f *excelize.File, sheet string, rowNum int, row repository.SummaryRow) error {
	values := []interface{}{
		row.Bucket,
		row.Revenue.InexactFloat64(),
		row.Expenses.InexactFloat64(),
		row.Profit.InexactFloat64(),
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
