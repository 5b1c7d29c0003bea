package recognizer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/session"

	"github.com/muhammadolammi/resumeanalyzer/internal/logger"
)

// stuckSessions refuses to delete sessions and uses the in-memory service
// for everything else.
type stuckSessions struct {
	session.Service
}

func (stuckSessions) Delete(context.Context, *session.DeleteRequest) error {
	return errors.New("session store unavailable")
}

func TestEndSessionLogsDeleteFailure(t *testing.T) {
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })
	var logs bytes.Buffer
	logger.InitWithWriter(logger.Config{Level: "info", Format: "json"}, &logs)

	ctx := context.Background()
	sessions := stuckSessions{Service: session.InMemoryService()}
	created, err := sessions.Create(ctx, &session.CreateRequest{AppName: agentName, UserID: agentUserID, SessionID: "s-1"})
	require.NoError(t, err)

	g := &Gemini{sessions: sessions, appName: agentName}
	g.endSession(ctx, created.Session)

	assert.Contains(t, logs.String(), "failed to delete agent session")
	assert.Contains(t, logs.String(), `"agent_session":"s-1"`)
	assert.Contains(t, logs.String(), "session store unavailable")
}

func TestEndSessionDeletes(t *testing.T) {
	ctx := context.Background()
	sessions := session.InMemoryService()
	created, err := sessions.Create(ctx, &session.CreateRequest{AppName: agentName, UserID: agentUserID, SessionID: "s-2"})
	require.NoError(t, err)

	g := &Gemini{sessions: sessions, appName: agentName}
	g.endSession(ctx, created.Session)

	_, err = sessions.Get(ctx, &session.GetRequest{AppName: agentName, UserID: agentUserID, SessionID: "s-2"})
	assert.Error(t, err)
}
