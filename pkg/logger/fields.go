package logger

// Standard field names for consistent logging.
const (
	FieldService  = "service"
	FieldError    = "error"
	FieldUserID   = "user_id"
	FieldChatID   = "chat_id"
	FieldAdminID  = "admin_id"
	FieldTicketID = "ticket_id"
	FieldAction   = "action"
)
