package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceCategory 서비스 카테고리 (커트, 펌, 염색 등)
type ServiceCategory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"` // 카테고리명
	CreatedAt time.Time `json:"created_at"`
}

func (ServiceCategory) TableName() string {
	return "service_categories"
}

// Service 시술 서비스
type Service struct {
	ID              uint            `gorm:"primarykey" json:"id"`                          // 서비스 ID
	StoreID         *uint           `gorm:"index" json:"store_id"`                         // 매장 ID (첫 예약 시 바인딩될 수 있음)
	CategoryID      *uint           `gorm:"index" json:"category_id,omitempty"`            // 카테고리 ID
	Name            string          `gorm:"not null" json:"name"`                          // 서비스명
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`      // 기본 단가
	DurationMinutes int             `gorm:"not null;default:60" json:"duration_minutes"` // 소요 시간(분)
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Category  *ServiceCategory   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Designers []StaffMembership  `gorm:"many2many:service_designers;" json:"designers,omitempty"` // 시술 가능 디자이너
	Inventory []ServiceInventory `gorm:"foreignKey:ServiceID" json:"inventory,omitempty"`         // 소모 재고 목록
}

func (Service) TableName() string {
	return "services"
}

// Duration 서비스 소요 시간
func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// InventoryCost 소모 재고 원가 합계 (수량 × 입고가). Inventory.InventoryItem 이 로드되어 있어야 한다.
func (s Service) InventoryCost() decimal.Decimal {
	total := decimal.Zero
	for _, req := range s.Inventory {
		if req.InventoryItem == nil {
			continue
		}
		total = total.Add(req.InventoryItem.PurchasePrice.Mul(decimal.NewFromInt(int64(req.Quantity))))
	}
	return total
}

// ShortInventory 재고가 부족한 소모 항목을 반환한다
func (s Service) ShortInventory() []ServiceInventory {
	var short []ServiceInventory
	for _, req := range s.Inventory {
		if req.InventoryItem == nil || !req.InventoryItem.HasStock(req.Quantity) {
			short = append(short, req)
		}
	}
	return short
}

// ServiceInventory 서비스 1회 시술 시 소모되는 재고
type ServiceInventory struct {
	ID              uint `gorm:"primarykey" json:"id"`
	ServiceID       uint `gorm:"index;not null" json:"service_id"`
	InventoryItemID uint `gorm:"index;not null" json:"inventory_item_id"`
	Quantity        int  `gorm:"not null;default:1" json:"quantity"` // 소모 수량

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
}

func (ServiceInventory) TableName() string {
	return "service_inventories"
}
