package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypePayslipRequestSubmitted NotificationType = "payslip_request_submitted"
	TypePayslipRequestRejected  NotificationType = "payslip_request_rejected"
	TypePayslipRequestFailed    NotificationType = "payslip_request_failed"
	TypePayslipReleased         NotificationType = "payslip_released"
	TypePayslipRequestReminder  NotificationType = "payslip_request_reminder"
)

// Audience selects who sees a notification.
type Audience string

const (
	AudienceAdmins   Audience = "admins"
	AudienceEmployee Audience = "employee"
)

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID *string
	Audience    Audience
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	CreatedAt   time.Time
}
