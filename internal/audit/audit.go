package audit

import (
	"context"
	"log/slog"

	"github.com/khanghh/photoshare/model"
	"github.com/khanghh/photoshare/params"
)

const (
	EventTypeLoginSuccess      = "login_success"
	EventTypeLoginFailure      = "login_failure"
	EventTypeLogout            = "logout"
	EventTypeTokenRefreshed    = "token_refreshed"
	EventTypeRefreshTokenReuse = "refresh_token_reuse"
	EventTypeUserBanned        = "user_banned"
	EventTypeUserUnbanned      = "user_unbanned"
	EventTypeRoleChanged       = "role_changed"
)

// ClientInfo identifies where a request came from.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type LoginRecord struct {
	UserID  uint
	Email   string
	Success bool
	Reason  string
	Client  ClientInfo
}

type SessionRecord struct {
	UserID uint
	Email  string
	Client ClientInfo
}

type ModerationRecord struct {
	ActorID   uint
	UserID    uint
	Email     string
	EventType string
	Reason    string
	Client    ClientInfo
}

// Recorder persists auth events. Recording failures are logged and never
// returned, auditing must not fail the request it describes.
type Recorder struct {
	repo AuditEventRepository
}

func (r *Recorder) record(ctx context.Context, event *model.AuditEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), params.AuditRecordTimeout)
	defer cancel()
	if err := r.repo.RecordEvent(ctx, event); err != nil {
		slog.Error("Failed to record audit event", "eventType", event.EventType, "userID", event.UserID, "error", err)
	}
}

func (r *Recorder) RecordLogin(ctx context.Context, record LoginRecord) {
	eventType := EventTypeLoginFailure
	if record.Success {
		eventType = EventTypeLoginSuccess
	}
	r.record(ctx, &model.AuditEvent{
		UserID:    record.UserID,
		Email:     record.Email,
		EventType: eventType,
		Reason:    record.Reason,
		IP:        record.Client.IP,
		UserAgent: record.Client.UserAgent,
	})
}

func (r *Recorder) RecordLogout(ctx context.Context, record SessionRecord) {
	r.record(ctx, &model.AuditEvent{
		UserID:    record.UserID,
		Email:     record.Email,
		EventType: EventTypeLogout,
		IP:        record.Client.IP,
		UserAgent: record.Client.UserAgent,
	})
}

// RecordRefresh records a rotation, or a rejected reuse of a stale refresh token.
func (r *Recorder) RecordRefresh(ctx context.Context, record SessionRecord, reused bool) {
	eventType := EventTypeTokenRefreshed
	if reused {
		eventType = EventTypeRefreshTokenReuse
	}
	r.record(ctx, &model.AuditEvent{
		UserID:    record.UserID,
		Email:     record.Email,
		EventType: eventType,
		IP:        record.Client.IP,
		UserAgent: record.Client.UserAgent,
	})
}

func (r *Recorder) RecordModeration(ctx context.Context, record ModerationRecord) {
	r.record(ctx, &model.AuditEvent{
		UserID:    record.UserID,
		Email:     record.Email,
		EventType: record.EventType,
		ActorID:   record.ActorID,
		Reason:    record.Reason,
		IP:        record.Client.IP,
		UserAgent: record.Client.UserAgent,
	})
}

func NewRecorder(repo AuditEventRepository) *Recorder {
	return &Recorder{repo: repo}
}
