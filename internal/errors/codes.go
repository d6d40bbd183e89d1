package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 소유자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // 잘못된 형식 (날짜/시간)
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 오류
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌
	ResourceBusy          = "RESOURCE_BUSY"           // 같은 디자이너에 대한 다른 요청 처리 중
	ResourceLockFailed    = "RESOURCE_LOCK_FAILED"    // 잠금 저장소 오류

	// ==================== 매장/직원 (STORE_, STAFF_) ====================
	StoreNotFound      = "STORE_NOT_FOUND"      // 매장 없음
	StoreNameExists    = "STORE_NAME_EXISTS"    // 매장 이름 중복
	StaffNotFound      = "STAFF_NOT_FOUND"      // 직원 없음
	StaffAlreadyExists = "STAFF_ALREADY_EXISTS" // 이미 등록된 직원
	StaffNotInStore    = "STAFF_NOT_IN_STORE"   // 해당 매장에 등록되지 않은 디자이너
	StaffWrongStore    = "STAFF_WRONG_STORE"    // 서비스 매장과 다른 매장의 디자이너
	StaffNotEligible   = "STAFF_NOT_ELIGIBLE"   // 서비스를 제공하지 않는 디자이너
	StaffOffDuty       = "STAFF_OFF_DUTY"       // 근무일이 아님
	UserNotFound       = "USER_NOT_FOUND"       // 사용자 없음

	// ==================== 서비스/재고 (SERVICE_, INVENTORY_) ====================
	ServiceNotFound         = "SERVICE_NOT_FOUND"          // 서비스 없음
	ServiceCategoryNotFound = "SERVICE_CATEGORY_NOT_FOUND" // 서비스 카테고리 없음
	InventoryItemNotFound   = "INVENTORY_ITEM_NOT_FOUND"   // 재고 아이템 없음
	InventoryShortfall      = "INVENTORY_SHORTFALL"        // 재고 부족

	// ==================== 고객 (CUSTOMER_) ====================
	CustomerNotFound = "CUSTOMER_NOT_FOUND" // 고객 없음

	// ==================== 예약 (RESERVATION_) ====================
	ReservationNotFound             = "RESERVATION_NOT_FOUND"              // 예약 없음
	ReservationOverlap              = "RESERVATION_OVERLAP"                // 같은 디자이너의 예약 시간 중복
	ReservationOutsideHours         = "RESERVATION_OUTSIDE_HOURS"          // 근무 시간 외 예약
	ReservationInvalidStatus        = "RESERVATION_INVALID_STATUS"         // 알 수 없는 예약 상태
	ReservationInvalidTransition    = "RESERVATION_INVALID_TRANSITION"     // 허용되지 않는 상태 변경
	ReservationRescheduleNotAllowed = "RESERVATION_RESCHEDULE_NOT_ALLOWED" // 예약 중 상태에서만 시간 변경 가능
	ReservationNotCompleted         = "RESERVATION_NOT_COMPLETED"          // 방문 완료되지 않은 예약

	// ==================== 근무표 (CALENDAR_) ====================
	CalendarInvalidShift  = "CALENDAR_INVALID_SHIFT"  // 시작 시간이 종료 시간보다 늦음
	CalendarInvalidStatus = "CALENDAR_INVALID_STATUS" // 알 수 없는 근무 상태

	// ==================== 매출 (SALES_) ====================
	SalesLedgerPending      = "SALES_LEDGER_PENDING"      // 상태는 변경되었으나 매출 반영 실패 (재시도 필요)
	SalesInvalidGranularity = "SALES_INVALID_GRANULARITY" // 집계 단위 오류
	SalesExportFailed       = "SALES_EXPORT_FAILED"       // 매출 보고서 내보내기 실패

	// ==================== 서버 (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR" // 서버 내부 오류
	InternalDatabase    = "INTERNAL_DATABASE"     // 데이터베이스 오류
	InternalExternalAPI = "INTERNAL_EXTERNAL_API" // 외부 서비스 오류
)
