package logx

const (
	FieldAppName      = "app-name"
	FieldAppVersion   = "app-version"
	FieldAttempt      = "attempt"
	FieldCollected    = "collected"
	FieldCount        = "count"
	FieldDay          = "day"
	FieldDeadline     = "deadline"
	FieldDeal         = "deal"
	FieldDescription  = "description"
	FieldDurationMs   = "duration-ms"
	FieldError        = "error"
	FieldFactor       = "factor"
	FieldFilter       = "filter"
	FieldFound        = "found"
	FieldHTTPMethod   = "http-method"
	FieldHTTPRequest  = "http-request"
	FieldHTTPResponse = "http-response"
	FieldIP           = "ip"
	FieldInterval     = "interval"
	FieldKept         = "kept"
	FieldLink         = "link"
	FieldMaxAttempts  = "max-attempts"
	FieldMedian       = "median"
	FieldPage         = "page"
	FieldPath         = "path"
	FieldPlayerID     = "player-id"
	FieldPrice        = "price"
	FieldReleased     = "released"
	FieldRemoved      = "removed"
	FieldRequestBody  = "request-body"
	FieldRequestID    = "request-id"
	FieldResponseBody = "response-body"
	FieldRunID        = "run-id"
	FieldStack        = "stack"
	FieldStatusCode   = "status-code"
	FieldSubdomain    = "subdomain"
	FieldURL          = "url"
	FieldUser         = "user"
	FieldWage         = "wage"
)
