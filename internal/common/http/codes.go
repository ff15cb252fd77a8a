package http

const (
	CodeUnknown              = "UNKNOWN"
	CodeInvalidJSON          = "INVALID_JSON"
	CodeMissingAuthorization = "MISSING_AUTHORIZATION"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeRateLimited          = "RATE_LIMITED"
	CodeRequestTooLarge      = "REQUEST_TOO_LARGE"
	CodeUnavailable          = "UNAVAILABLE"
)
