package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldBotStatus       = "bot-status"
	FieldCycle           = "cycle"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldOfferCount      = "offer-count"
	FieldOfferID         = "offer-id"
	FieldPrice           = "price"
	FieldReason          = "reason"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
)
