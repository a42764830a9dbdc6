package models

import "time"

const (
	NotificationRoleChange    = "role_change"
	NotificationMessage       = "message"
	NotificationReaderMessage = "reader_message"
	NotificationReply         = "reply"
	NotificationSystem        = "system"
)

const (
	NotificationPending  = "pending"
	NotificationApproved = "approved"
	NotificationRejected = "rejected"
	NotificationUnread   = "unread"
	NotificationRead     = "read"
)

// Notification is a row of the shared inbox table. A role_change row is also a
// promotion request whose status moves pending -> approved | rejected once.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Type      string    `json:"type" gorm:"size:30"`
	Status    string    `json:"status" gorm:"size:20"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationWithUser adds the owner's identity for the admin inbox.
type NotificationWithUser struct {
	Notification
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AdminInbox groups the admin-facing notifications by kind.
type AdminInbox struct {
	RoleRequests   []NotificationWithUser `json:"role_requests"`
	ReaderMessages []NotificationWithUser `json:"reader_messages"`
	AuthorMessages []NotificationWithUser `json:"author_messages"`
}

type MessageRequest struct {
	Message string `form:"message" json:"message" validate:"required,max=2000"`
}
