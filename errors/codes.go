package errors

// ErrorCode identifies an AppError class in API responses
type ErrorCode int32

const (
	ErrorCode_INTERNAL ErrorCode = iota
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_PERMISSION_DENIED
	ErrorCode_UNAUTHENTICATED
	ErrorCode_INVALID_PAYLOAD

	ErrorCode_AUTH_INVALID_TOKEN
	ErrorCode_AUTH_TOKEN_EXPIRED
	ErrorCode_AUTH_USER_NOT_FOUND

	ErrorCode_PROJECT_NOT_FOUND
	ErrorCode_PROJECT_ALREADY_EXISTS
	ErrorCode_PROJECT_ACCESS_DENIED
	ErrorCode_INSUFFICIENT_CREDITS
	ErrorCode_UPLOAD_TOO_LARGE
	ErrorCode_PIPELINE_FAILED

	ErrorCode_INTEGRATION_STORAGE_FAILED
)

// ErrorCode_HTTP_OK is reported in success envelopes
const ErrorCode_HTTP_OK ErrorCode = 200

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:          "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_USER_NOT_FOUND:        "AUTH_USER_NOT_FOUND",
	ErrorCode_PROJECT_NOT_FOUND:          "PROJECT_NOT_FOUND",
	ErrorCode_PROJECT_ALREADY_EXISTS:     "PROJECT_ALREADY_EXISTS",
	ErrorCode_PROJECT_ACCESS_DENIED:      "PROJECT_ACCESS_DENIED",
	ErrorCode_INSUFFICIENT_CREDITS:       "INSUFFICIENT_CREDITS",
	ErrorCode_UPLOAD_TOO_LARGE:           "UPLOAD_TOO_LARGE",
	ErrorCode_PIPELINE_FAILED:            "PIPELINE_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_HTTP_OK:                    "OK",
}

// String returns the wire name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
