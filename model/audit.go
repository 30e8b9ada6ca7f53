package model

import "time"

type AuditEvent struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"index;not null"`         // internal user id, 0 when unknown
	Email     string    `gorm:"size:254;not null;index"` // snapshot of email at event time
	EventType string    `gorm:"size:64;not null;index"`  // login_success, login_failure...
	ActorID   uint      `gorm:"index"`                   // admin performing the action, only for admin events
	Reason    string    `gorm:"size:512"`                // failure reason or context
	IP        string    `gorm:"size:45;not null"`        // IPv4/IPv6
	UserAgent string    `gorm:"size:512;not null"`       // user agent string
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (AuditEvent) TableName() string {
	return "audit"
}
