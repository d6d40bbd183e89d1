package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SalesReport 매장 일별 매출 집계. 매출 원장(SalesLedgerEntry)의 합계로만 갱신된다.
type SalesReport struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	StoreID       uint            `gorm:"uniqueIndex:idx_sales_store_date;not null" json:"store_id"`
	ReportDate    string          `gorm:"uniqueIndex:idx_sales_store_date;type:varchar(10);not null" json:"report_date"`
	TotalRevenue  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_revenue"`  // 총 매출
	TotalExpenses decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_expenses"` // 총 지출 (재고 원가)
	NetProfit     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"net_profit"`     // 순이익
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (SalesReport) TableName() string {
	return "sales_reports"
}

type LedgerEntryKind string

const (
	LedgerPosting  LedgerEntryKind = "posting"  // 방문 완료 반영
	LedgerReversal LedgerEntryKind = "reversal" // 이전 반영분 취소
)

// SalesLedgerEntry 예약 단위 매출 원장 라인. 추가만 가능하며 정정은 역분개 라인으로 한다.
type SalesLedgerEntry struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	ReservationID   uint            `gorm:"index;not null" json:"reservation_id"`
	StoreID         uint            `gorm:"index:idx_ledger_store_date;not null" json:"store_id"`
	ReportDate      string          `gorm:"index:idx_ledger_store_date;type:varchar(10);not null" json:"report_date"`
	Kind            LedgerEntryKind `gorm:"type:varchar(10);not null" json:"kind"`
	Revenue         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"revenue"`
	Expenses        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"expenses"`
	Profit          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"profit"`
	ServicePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"service_price"`  // 반영 시점 서비스 단가
	DiscountRate    decimal.Decimal `gorm:"type:decimal(5,4);not null" json:"discount_rate"`   // 적용 할인율
	IsMembership    bool            `gorm:"not null;default:false" json:"is_membership"`       // 반영 시점 멤버십 여부
	InventoryDetail datatypes.JSON  `json:"inventory_detail,omitempty"`                        // 재고 원가 내역 스냅샷
	ReversesEntryID *uint           `gorm:"index" json:"reverses_entry_id,omitempty"`          // 역분개 대상 라인
	CreatedAt       time.Time       `json:"created_at"`
}

func (SalesLedgerEntry) TableName() string {
	return "sales_ledger_entries"
}

// InventoryCostLine 원장 스냅샷에 기록되는 재고 원가 항목
type InventoryCostLine struct {
	InventoryItemID uint            `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Cost            decimal.Decimal `json:"cost"`
}
