package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 내부 에러 문자열은 응답에 포함하지 않는다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "서버 오류가 발생했습니다",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(errStrLower)
	}

	// 2. PostgreSQL / SQLite 제약 조건 에러
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "연결된 데이터가 있어 처리할 수 없습니다",
		}
	}
	if strings.Contains(errStrLower, "not null constraint") || strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "필수 항목이 누락되었습니다",
		}
	}

	// 3. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "외부 서비스 연결에 실패했습니다. 잠시 후 다시 시도해주세요",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "stores.name") || strings.Contains(errLower, "idx_stores_name"):
		return ErrorInfo{Code: StoreNameExists, Message: "이미 사용 중인 매장 이름입니다"}
	case strings.Contains(errLower, "staff_memberships") || strings.Contains(errLower, "idx_staff_store_user"):
		return ErrorInfo{Code: StaffAlreadyExists, Message: "이미 매장에 등록된 직원입니다"}
	case strings.Contains(errLower, "working_hours") || strings.Contains(errLower, "idx_working_hours_staff_date"):
		return ErrorInfo{Code: ResourceConflict, Message: "같은 날짜의 근무표가 동시에 수정되었습니다. 다시 시도해주세요"}
	case strings.Contains(errLower, "service_categories"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "이미 존재하는 서비스 카테고리입니다"}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "이미 존재하는 데이터입니다",
	}
}

// getNotFoundMessage context에 따른 Not Found 메시지
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "store") || strings.Contains(contextLower, "매장"):
		return "매장을 찾을 수 없습니다"
	case strings.Contains(contextLower, "staff") || strings.Contains(contextLower, "직원"):
		return "직원을 찾을 수 없습니다"
	case strings.Contains(contextLower, "reservation") || strings.Contains(contextLower, "예약"):
		return "예약을 찾을 수 없습니다"
	case strings.Contains(contextLower, "service") || strings.Contains(contextLower, "서비스"):
		return "서비스를 찾을 수 없습니다"
	case strings.Contains(contextLower, "customer") || strings.Contains(contextLower, "고객"):
		return "고객을 찾을 수 없습니다"
	}

	return "요청한 데이터를 찾을 수 없습니다"
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create") || strings.Contains(contextLower, "등록"):
		return "등록 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "update") || strings.Contains(contextLower, "수정"):
		return "수정 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "삭제"):
		return "삭제 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	case strings.Contains(contextLower, "sales") || strings.Contains(contextLower, "매출"):
		return "매출 처리 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}

	return "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

// IsDuplicateKey reports whether err is a unique constraint violation on any supported driver.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errStrLower := strings.ToLower(err.Error())
	return strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint")
}
