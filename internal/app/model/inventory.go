package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryUsage string // 재고 용도

const (
	UsageSale    InventoryUsage = "SALE"    // 매장 판매
	UsageService InventoryUsage = "SERVICE" // 매장 시술
	UsageStaff   InventoryUsage = "STAFF"   // 직원
)

// InventoryItem 재고 아이템. 등록/수정은 재고 관리 시스템에서 이루어지고 여기서는 조회만 한다.
type InventoryItem struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	Name            string          `gorm:"not null" json:"name"`                              // 제품명
	PurchasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"purchase_price"` // 입고가 (원가)
	SellingPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"selling_price"`  // 매장 판매가
	Usage           InventoryUsage  `gorm:"type:varchar(10)" json:"usage"`                     // 판매 용도
	Stock           int             `gorm:"not null;default:0" json:"stock"`                   // 재고
	SafetyStock     int             `gorm:"not null;default:0" json:"safety_stock"`            // 안전재고
	StorageLocation string          `json:"storage_location"`                                  // 보관 장소
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (i InventoryItem) HasStock(quantity int) bool {
	return i.Stock >= quantity
}

// BelowSafetyStock 안전재고 미만 여부
func (i InventoryItem) BelowSafetyStock() bool {
	return i.Stock < i.SafetyStock
}

// StockValue 재고 금액 (입고가 × 재고)
func (i InventoryItem) StockValue() decimal.Decimal {
	return i.PurchasePrice.Mul(decimal.NewFromInt(int64(i.Stock)))
}
