package model

import (
	"strings"
	"time"
)

type ReservationStatus string // 예약 상태

const (
	ReservationPending   ReservationStatus = "pending"   // 예약 대기
	ReservationConfirmed ReservationStatus = "confirmed" // 예약 중
	ReservationCompleted ReservationStatus = "completed" // 방문 완료
	ReservationCancelled ReservationStatus = "cancelled" // 예약 취소
)

var reservationStatusLabels = map[ReservationStatus]string{
	ReservationPending:   "예약 대기",
	ReservationConfirmed: "예약 중",
	ReservationCompleted: "방문 완료",
	ReservationCancelled: "예약 취소",
}

// ParseReservationStatus accepts either the status code or its Korean label.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	s = strings.TrimSpace(s)
	for status, label := range reservationStatusLabels {
		if s == string(status) || s == label {
			return status, true
		}
	}
	return "", false
}

func (s ReservationStatus) Label() string {
	return reservationStatusLabels[s]
}

// IsTerminal 방문 완료/예약 취소 상태에서는 더 이상 변경할 수 없다
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled
}

// IsActive 아직 진행 중인 예약 (생성 시 지정 가능한 상태)
func (s ReservationStatus) IsActive() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// BlocksSlot 디자이너 시간을 점유하는 상태. 예약 취소만 시간을 비운다
func (s ReservationStatus) BlocksSlot() bool {
	return s != ReservationCancelled
}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation 예약. 고객 정보는 예약 시점의 스냅샷을 함께 보관한다.
type Reservation struct {
	ID                uint              `gorm:"primarykey" json:"id"`
	StoreID           uint              `gorm:"index;not null" json:"store_id"`                          // 매장 ID
	ServiceID         uint              `gorm:"index;not null" json:"service_id"`                        // 서비스 ID
	StaffMembershipID *uint             `gorm:"index" json:"staff_id"`                                   // 담당 디자이너 (미배정 가능)
	CustomerID        uint              `gorm:"index;not null" json:"customer_id"`                       // 고객 ID
	CustomerName      string            `gorm:"not null" json:"customer_name"`                           // 예약 시점 고객 이름
	CustomerPhone     string            `gorm:"type:varchar(20);not null" json:"customer_phone"`         // 예약 시점 전화번호
	CustomerGender    Gender            `gorm:"type:varchar(1)" json:"customer_gender"`                  // 예약 시점 성별
	ReservationTime   time.Time         `gorm:"not null" json:"reservation_time"`                        // 예약 시작 시각 (UTC)
	ReservationDate   string            `gorm:"type:varchar(10);index;not null" json:"reservation_date"` // 영업일 기준 날짜 (YYYY-MM-DD)
	DurationMinutes   int               `gorm:"not null" json:"duration_minutes"`                        // 예약 시점 서비스 소요 시간
	Status            ReservationStatus `gorm:"type:varchar(20);index;not null" json:"status"`           // 상태
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`                                  // 방문 완료 시각
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	Service  *Service         `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Staff    *StaffMembership `gorm:"foreignKey:StaffMembershipID;constraint:OnDelete:SET NULL" json:"staff,omitempty"`
	Customer *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (r Reservation) EndTime() time.Time {
	return r.ReservationTime.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// Overlaps uses half-open intervals: touching endpoints do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.ReservationTime.Before(end) && r.EndTime().After(start)
}
