package errors

// ErrorCode identifies an application error category. Codes are stable and
// returned to API clients; HTTP status is carried separately on AppError.
type ErrorCode int

const (
	ErrorCode_INTERNAL ErrorCode = iota + 1
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS
	ErrorCode_PERMISSION_DENIED
	ErrorCode_UNAUTHENTICATED
	ErrorCode_INVALID_CONFIGURATION
	ErrorCode_QUOTA_EXCEEDED
	ErrorCode_INVALID_STATE
	ErrorCode_PROVIDER_FAILED
	ErrorCode_DB_QUERY_FAILED
	ErrorCode_CACHE_FAILED
	ErrorCode_INVALID_PAYLOAD
	ErrorCode_HTTP_OK
)

var codeNames = map[ErrorCode]string{
	ErrorCode_INTERNAL:              "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:      "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:             "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:        "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:     "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:       "UNAUTHENTICATED",
	ErrorCode_INVALID_CONFIGURATION: "INVALID_CONFIGURATION",
	ErrorCode_QUOTA_EXCEEDED:        "QUOTA_EXCEEDED",
	ErrorCode_INVALID_STATE:         "INVALID_STATE",
	ErrorCode_PROVIDER_FAILED:       "PROVIDER_FAILED",
	ErrorCode_DB_QUERY_FAILED:       "DB_QUERY_FAILED",
	ErrorCode_CACHE_FAILED:          "CACHE_FAILED",
	ErrorCode_INVALID_PAYLOAD:       "INVALID_PAYLOAD",
	ErrorCode_HTTP_OK:               "HTTP_OK",
}

// String returns the stable name of the error code.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
