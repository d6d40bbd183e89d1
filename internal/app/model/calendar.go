package model

import (
	"time"

	"gorm.io/datatypes"
)

type WorkStatus string // 근무 상태

const (
	WorkStatusWorking WorkStatus = "working" // 근무
	WorkStatusOff     WorkStatus = "off"     // 휴무
)

func (s WorkStatus) IsValid() bool {
	return s == WorkStatusWorking || s == WorkStatusOff
}

// WorkingHoursEntry 직원의 하루 근무표. (직원, 날짜) 당 하나만 존재한다.
type WorkingHoursEntry struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	StaffMembershipID uint           `gorm:"uniqueIndex:idx_working_hours_staff_date;not null" json:"staff_id"`                   // 직원 ID
	WorkDate          string         `gorm:"uniqueIndex:idx_working_hours_staff_date;type:varchar(10);not null" json:"work_date"` // 근무 날짜 (YYYY-MM-DD)
	StoreID           uint           `gorm:"index:idx_working_hours_store_date;not null" json:"store_id"`                         // 매장 ID
	StartTime         datatypes.Time `json:"start_time"`                                                                          // 근무 시작
	EndTime           datatypes.Time `json:"end_time"`                                                                            // 근무 종료
	Status            WorkStatus     `gorm:"type:varchar(10);not null" json:"status"`                                             // 근무/휴무
	CreatedAt         time.Time      `json:"created_at"`

	Staff *StaffMembership `gorm:"foreignKey:StaffMembershipID" json:"staff,omitempty"`
}

func (WorkingHoursEntry) TableName() string {
	return "working_hours_entries"
}

// Covers reports whether the time of day falls inside [StartTime, EndTime].
func (e WorkingHoursEntry) Covers(timeOfDay time.Duration) bool {
	return time.Duration(e.StartTime) <= timeOfDay && timeOfDay <= time.Duration(e.EndTime)
}

// DailyStaffTally 매장별 일자별 근무/휴무 인원 집계 (근무표에서 언제든 재계산 가능한 캐시)
type DailyStaffTally struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	StoreID      uint      `gorm:"uniqueIndex:idx_tally_store_date;not null" json:"store_id"`
	WorkDate     string    `gorm:"uniqueIndex:idx_tally_store_date;type:varchar(10);not null" json:"work_date"`
	WorkingCount int       `gorm:"not null;default:0" json:"working_count"` // 근무 인원
	OffCount     int       `gorm:"not null;default:0" json:"off_count"`     // 휴무 인원
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DailyStaffTally) TableName() string {
	return "daily_staff_tallies"
}
