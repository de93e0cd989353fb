package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeCacheError         ErrorCode = "COMMON_009"
	ErrCodeExternalService    ErrorCode = "COMMON_010"
)

// Data-source error codes (FDA 510(k), ClinicalTrials.gov).
const (
	ErrCodeDataSourceUnavailable ErrorCode = "SRC_001"
	ErrCodeDataSourceRateLimited ErrorCode = "SRC_002"
	ErrCodeDataSourceParseError  ErrorCode = "SRC_003"
)

// Intelligence-engine error codes.
const (
	ErrCodeAnalysisFailed        ErrorCode = "INTEL_001"
	ErrCodeReportAssemblyFailed  ErrorCode = "INTEL_002"
	ErrCodeQueryInvalid          ErrorCode = "INTEL_003"
)

// Messaging error codes.
const (
	ErrCodeAlertPublishFailed ErrorCode = "MQ_001"
	ErrCodeProducerClosed     ErrorCode = "MQ_002"
)

// httpStatusByCode maps error codes to the HTTP status the interface layer
// should respond with. Codes not listed map to 500.
var httpStatusByCode = map[ErrorCode]int{
	ErrCodeBadRequest:            http.StatusBadRequest,
	ErrCodeValidation:            http.StatusBadRequest,
	ErrCodeQueryInvalid:          http.StatusBadRequest,
	ErrCodeNotFound:              http.StatusNotFound,
	ErrCodeTooManyRequests:       http.StatusTooManyRequests,
	ErrCodeDataSourceRateLimited: http.StatusTooManyRequests,
	ErrCodeServiceUnavailable:    http.StatusServiceUnavailable,
	ErrCodeDataSourceUnavailable: http.StatusBadGateway,
	ErrCodeTimeout:               http.StatusGatewayTimeout,
}

// HTTPStatus returns the HTTP status code associated with c.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := httpStatusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}
