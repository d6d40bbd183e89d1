package model

import (
	"time"
)

// Store 미용실 매장
type Store struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 매장 ID
	Name      string    `gorm:"uniqueIndex:idx_stores_name;not null" json:"name"`   // 매장 이름 (전역 유일)
	OwnerID   uint      `gorm:"index;not null" json:"owner_id"`                     // 원장 계정 ID (생성 후 변경 불가)
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`                      // 매장 전화번호
	Address   string    `json:"address"`                                          // 주소
	CreatedAt time.Time `json:"created_at"`                                       // 생성 시각
	UpdatedAt time.Time `json:"updated_at"`                                       // 수정 시각

	Owner *User             `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`          // 원장
	Staff []StaffMembership `gorm:"constraint:OnDelete:CASCADE" json:"staff,omitempty"` // 직원 목록
}

func (Store) TableName() string {
	return "stores"
}

// StaffRole 매장 내 직원 역할
type StaffRole string

const (
	StaffRoleOwner    StaffRole = "owner"    // 원장 대리
	StaffRoleManager  StaffRole = "manager"  // 매니저
	StaffRoleDesigner StaffRole = "designer" // 디자이너
	StaffRoleStaff    StaffRole = "staff"    // 일반 직원
)

func (r StaffRole) IsValid() bool {
	switch r {
	case StaffRoleOwner, StaffRoleManager, StaffRoleDesigner, StaffRoleStaff:
		return true
	}
	return false
}

// CanPerformServices 시술 가능 역할 여부 (디자이너, 매니저)
func (r StaffRole) CanPerformServices() bool {
	return r == StaffRoleDesigner || r == StaffRoleManager
}

// StaffMembership 매장-계정 소속 정보. 한 사람이 여러 매장에 독립적으로 소속될 수 있다.
type StaffMembership struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                      // 직원(소속) ID
	StoreID   uint      `gorm:"uniqueIndex:idx_staff_store_user;not null" json:"store_id"` // 매장 ID
	UserID    uint      `gorm:"uniqueIndex:idx_staff_store_user;not null" json:"user_id"`  // 계정 ID
	Role      StaffRole `gorm:"type:varchar(20);not null" json:"role"`                     // 역할
	JoinedAt  time.Time `json:"joined_at"`                                                 // 입사일
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User             *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EligibleServices []Service `gorm:"many2many:service_designers;" json:"eligible_services,omitempty"` // 제공 가능한 서비스
}

func (StaffMembership) TableName() string {
	return "staff_memberships"
}
