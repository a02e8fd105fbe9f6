package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches internal/middleware/auth.go keys)
	FieldUserID   = "user_id"
	FieldUsername = "username"

	// Service
	FieldService = "service"

	// Domain entities
	FieldPostID         = "post_id"
	FieldCommentID      = "comment_id"
	FieldNotificationID = "notification_id"
	FieldTargetID       = "target_id"
)
