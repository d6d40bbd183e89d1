package model

import (
	"time"

	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

const (
	MembershipLabelMember  = "멤버십 가입 고객"
	MembershipLabelRegular = "일반 고객"
)

// Customer 고객. (이름, 전화번호) 조합으로 식별된다.
type Customer struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Name             string    `gorm:"uniqueIndex:idx_customer_name_phone;not null" json:"name"`                          // 이름
	PhoneNumber      string    `gorm:"uniqueIndex:idx_customer_name_phone;type:varchar(20);not null" json:"phone_number"` // 전화번호
	Gender           Gender    `gorm:"type:varchar(1)" json:"gender"`                                                     // 성별
	IsMembership     bool      `gorm:"not null;default:false" json:"is_membership"`                                       // 멤버십 가입 여부
	ReservationCount int       `gorm:"not null;default:0" json:"reservation_count"`                                       // 누적 예약 횟수 (감소하지 않음)
	MembershipStatus string    `gorm:"-" json:"membership_status"`                                                        // 멤버십 상태 표시
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) AfterFind(tx *gorm.DB) error {
	c.MembershipStatus = c.MembershipLabel()
	return nil
}

func (c Customer) MembershipLabel() string {
	if c.IsMembership {
		return MembershipLabelMember
	}
	return MembershipLabelRegular
}
