package service

import (
	"errors"
	"fmt"

	apperrors "github.com/ikkim/hairable-backend/internal/errors"
)

// RejectionKind classifies why an operation was refused.
type RejectionKind string

const (
	KindNotFound          RejectionKind = "not_found"
	KindConflict          RejectionKind = "conflict"
	KindInvalidState      RejectionKind = "invalid_state"
	KindValidation        RejectionKind = "validation"
	KindForbidden         RejectionKind = "forbidden"
	KindDependencyFailure RejectionKind = "dependency_failure"
)

// RejectionError is a business rule rejection with a stable machine code.
type RejectionError struct {
	Kind    RejectionKind
	Code    string
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func reject(kind RejectionKind, code, message string) *RejectionError {
	return &RejectionError{Kind: kind, Code: code, Message: message}
}

// validationError builds a one-off validation rejection with a detail message.
func validationError(format string, args ...interface{}) *RejectionError {
	return reject(KindValidation, apperrors.ValidationInvalidInput, fmt.Sprintf(format, args...))
}

// AsRejection unwraps err into a RejectionError if it is one.
func AsRejection(err error) (*RejectionError, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection, true
	}
	return nil, false
}

var (
	ErrForbidden = reject(KindForbidden, apperrors.AuthzForbidden, "권한이 없습니다")

	ErrResourceBusy = reject(KindConflict, apperrors.ResourceBusy, "다른 요청을 처리 중입니다. 잠시 후 다시 시도해주세요")
	ErrLockFailed   = reject(KindDependencyFailure, apperrors.ResourceLockFailed, "요청을 처리할 수 없습니다. 잠시 후 다시 시도해주세요")

	ErrStoreNotFound     = reject(KindNotFound, apperrors.StoreNotFound, "매장을 찾을 수 없습니다")
	ErrStoreNameExists   = reject(KindConflict, apperrors.StoreNameExists, "이미 사용 중인 매장 이름입니다")
	ErrUserNotFound      = reject(KindNotFound, apperrors.UserNotFound, "사용자를 찾을 수 없습니다")
	ErrStaffNotFound     = reject(KindNotFound, apperrors.StaffNotFound, "직원을 찾을 수 없습니다")
	ErrStaffExists       = reject(KindConflict, apperrors.StaffAlreadyExists, "이미 매장에 등록된 직원입니다")
	ErrInvalidStaffRole  = reject(KindValidation, apperrors.ValidationInvalidInput, "유효하지 않은 직원 역할입니다")
	ErrStaffNotInStore   = reject(KindValidation, apperrors.StaffNotInStore, "매장에 등록되지 않은 디자이너입니다")
	ErrStaffWrongStore   = reject(KindValidation, apperrors.StaffWrongStore, "서비스와 같은 매장의 디자이너가 아닙니다")
	ErrStaffNotEligible  = reject(KindConflict, apperrors.StaffNotEligible, "해당 서비스를 시술할 수 없는 직원입니다")
	ErrStaffOffDuty      = reject(KindConflict, apperrors.StaffOffDuty, "해당 날짜에 근무하지 않는 직원입니다")
	ErrServiceNotFound   = reject(KindNotFound, apperrors.ServiceNotFound, "서비스를 찾을 수 없습니다")
	ErrCategoryNotFound  = reject(KindNotFound, apperrors.ServiceCategoryNotFound, "서비스 카테고리를 찾을 수 없습니다")
	ErrInventoryNotFound = reject(KindNotFound, apperrors.InventoryItemNotFound, "재고 아이템을 찾을 수 없습니다")
	ErrInventoryShortage = reject(KindConflict, apperrors.InventoryShortfall, "서비스에 필요한 재고가 부족합니다")
	ErrCustomerNotFound  = reject(KindNotFound, apperrors.CustomerNotFound, "고객을 찾을 수 없습니다")

	ErrReservationNotFound     = reject(KindNotFound, apperrors.ReservationNotFound, "예약을 찾을 수 없습니다")
	ErrReservationOverlap      = reject(KindConflict, apperrors.ReservationOverlap, "디자이너의 다른 예약과 시간이 겹칩니다")
	ErrOutsideWorkingHours     = reject(KindConflict, apperrors.ReservationOutsideHours, "디자이너 근무 시간이 아닙니다")
	ErrInvalidStatus           = reject(KindValidation, apperrors.ReservationInvalidStatus, "유효하지 않은 예약 상태입니다")
	ErrInvalidTransition       = reject(KindInvalidState, apperrors.ReservationInvalidTransition, "현재 예약 상태에서 변경할 수 없습니다")
	ErrRescheduleNotAllowed    = reject(KindInvalidState, apperrors.ReservationRescheduleNotAllowed, "예약 중 상태에서만 시간을 변경할 수 있습니다")
	ErrReservationNotCompleted = reject(KindInvalidState, apperrors.ReservationNotCompleted, "방문 완료된 예약만 매출에 반영할 수 있습니다")

	ErrInvalidDateRange   = reject(KindValidation, apperrors.ValidationInvalidRange, "시작 날짜가 종료 날짜보다 늦습니다")
	ErrInvalidShift       = reject(KindValidation, apperrors.CalendarInvalidShift, "근무 시작 시간은 종료 시간보다 빨라야 합니다")
	ErrInvalidWorkStatus  = reject(KindValidation, apperrors.CalendarInvalidStatus, "유효하지 않은 근무 상태입니다")
	ErrLedgerPending      = reject(KindDependencyFailure, apperrors.SalesLedgerPending, "매출 반영에 실패했습니다. 잠시 후 다시 시도해주세요")
	ErrInvalidGranularity = reject(KindValidation, apperrors.SalesInvalidGranularity, "집계 단위는 daily, monthly, yearly 중 하나여야 합니다")
	ErrExportFailed       = reject(KindDependencyFailure, apperrors.SalesExportFailed, "매출 보고서 생성에 실패했습니다")
)

// formatError rejects a malformed date or time value.
func formatError(format string, args ...interface{}) *RejectionError {
	return reject(KindValidation, apperrors.ValidationInvalidFormat, fmt.Sprintf(format, args...))
}
