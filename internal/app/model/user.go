package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 계정 권한 타입

const (
	RoleAdmin    UserRole = "admin"    // 시스템 관리자
	RoleOwner    UserRole = "owner"    // 원장 (매장 소유자)
	RoleManager  UserRole = "manager"  // 매니저
	RoleDesigner UserRole = "designer" // 디자이너
	RoleStaff    UserRole = "staff"    // 일반 직원
)

// User 계정 (발급/인증은 외부 인증 서비스 담당)
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`                         // 사용자 ID
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`            // 이메일
	Name      string         `gorm:"not null" json:"name"`                         // 이름
	Phone     string         `json:"phone"`                                        // 전화번호
	Role      UserRole       `gorm:"type:varchar(20);default:'staff'" json:"role"` // 권한
	CreatedAt time.Time      `json:"created_at"`                                   // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"`                                   // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                               // 삭제 시각(소프트 삭제)

	Stores []Store `gorm:"foreignKey:OwnerID" json:"stores,omitempty"` // 소유 매장 목록
}

func (User) TableName() string {
	return "users"
}

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleManager, RoleDesigner, RoleStaff:
		return true
	}
	return false
}
