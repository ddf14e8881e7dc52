package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by all modules.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
)

// Patent module error codes.
const (
	ErrCodePatentNotFound      ErrorCode = "PAT_001"
	ErrCodePatentAlreadyExists ErrorCode = "PAT_002"
	ErrCodePatentKindInvalid   ErrorCode = "PAT_003"
)

// Person module error codes.
const (
	ErrCodePersonNotFound      ErrorCode = "PRS_001"
	ErrCodePersonAlreadyExists ErrorCode = "PRS_002"
	ErrCodePersonKindInvalid   ErrorCode = "PRS_003"
)

// Filter module error codes.
const (
	ErrCodeFilterNotFound ErrorCode = "FLT_001"
	ErrCodeFilterEmpty    ErrorCode = "FLT_002"
)

// Export module error codes.
const (
	ErrCodeExportNotFound    ErrorCode = "EXP_001"
	ErrCodeExportEnqueueFail ErrorCode = "EXP_002"
	ErrCodeExportFailed      ErrorCode = "EXP_003"
)

// Short aliases used at call sites throughout the codebase.
const (
	CodeInternal      = ErrCodeInternal
	CodeInvalidParam  = ErrCodeBadRequest
	CodeNotFound      = ErrCodeNotFound
	CodeConflict      = ErrCodeConflict
	CodeDatabaseError = ErrCodeDatabaseError
	CodeCacheError    = ErrCodeCacheError
	CodeUnknown       = ErrorCode("UNKNOWN")
	CodeOK            = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,

	ErrCodePatentNotFound:      http.StatusNotFound,
	ErrCodePatentAlreadyExists: http.StatusConflict,
	ErrCodePatentKindInvalid:   http.StatusBadRequest,

	ErrCodePersonNotFound:      http.StatusNotFound,
	ErrCodePersonAlreadyExists: http.StatusConflict,
	ErrCodePersonKindInvalid:   http.StatusBadRequest,

	ErrCodeFilterNotFound: http.StatusNotFound,
	ErrCodeFilterEmpty:    http.StatusBadRequest,

	ErrCodeExportNotFound:    http.StatusNotFound,
	ErrCodeExportEnqueueFail: http.StatusServiceUnavailable,
	ErrCodeExportFailed:      http.StatusInternalServerError,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the ErrorCode maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}
