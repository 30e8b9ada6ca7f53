package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/khanghh/photoshare/internal/testutil"
	"github.com/khanghh/photoshare/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderPersistsEvents(t *testing.T) {
	ctx := context.Background()
	repo := NewAuditEventRepository(testutil.NewDB(t))
	recorder := NewRecorder(repo)
	client := ClientInfo{IP: "10.0.0.1", UserAgent: "curl/8.0"}

	recorder.RecordLogin(ctx, LoginRecord{UserID: 1, Email: "a@x.com", Success: false, Reason: "invalid password", Client: client})
	recorder.RecordLogin(ctx, LoginRecord{UserID: 1, Email: "a@x.com", Success: true, Client: client})
	recorder.RecordRefresh(ctx, SessionRecord{UserID: 1, Email: "a@x.com", Client: client}, true)
	recorder.RecordLogout(ctx, SessionRecord{UserID: 1, Email: "a@x.com", Client: client})
	recorder.RecordModeration(ctx, ModerationRecord{ActorID: 2, UserID: 1, Email: "a@x.com", EventType: EventTypeUserBanned, Client: client})

	events, err := repo.FindByUser(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, events, 5)

	types := make([]string, 0, len(events))
	for _, event := range events {
		types = append(types, event.EventType)
	}
	assert.Equal(t, []string{
		EventTypeUserBanned,
		EventTypeLogout,
		EventTypeRefreshTokenReuse,
		EventTypeLoginSuccess,
		EventTypeLoginFailure,
	}, types)
	assert.Equal(t, uint(2), events[0].ActorID)
	assert.Equal(t, "invalid password", events[4].Reason)
	assert.Equal(t, "10.0.0.1", events[4].IP)
}

type failingRepository struct {
	AuditEventRepository
	calls int
}

func (r *failingRepository) RecordEvent(ctx context.Context, event *model.AuditEvent) error {
	r.calls++
	return errors.New("database is down")
}

func TestRecorderSwallowsErrors(t *testing.T) {
	repo := &failingRepository{}
	recorder := NewRecorder(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() {
		recorder.RecordLogout(ctx, SessionRecord{UserID: 1})
	})
	assert.Equal(t, 1, repo.calls)
}
