package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/archive"
	"github.com/huddlehq/huddle/scheduler"
	"github.com/huddlehq/huddle/server"
	"github.com/huddlehq/huddle/services"
	"github.com/huddlehq/huddle/store"
)

func setupNewServer(t *testing.T) http.Handler {
	t.Helper()

	ws := store.New()
	rec := archive.NewMemory()
	timers := scheduler.New()
	go timers.Run()
	t.Cleanup(timers.Stop)

	auth, err := services.NewAuthenticater(ws, []byte("test-key"), time.Hour)
	require.NoError(t, err)
	member, err := services.NewMembership(ws, rec)
	require.NoError(t, err)
	msg, err := services.NewMessenger(ws, rec)
	require.NoError(t, err)
	sched, err := services.NewScheduler(ws, timers, rec)
	require.NoError(t, err)
	notify, err := services.NewNotifier(ws)
	require.NoError(t, err)
	get, err := services.NewGetter(ws)
	require.NoError(t, err)
	admin, err := services.NewAdmin(ws)
	require.NoError(t, err)

	s := server.NewServer(auth, member, msg, sched, notify, get, admin)
	assert.NotEmpty(t, s)
	return s.Serve()
}

// do runs one request against the handler, optionally authenticated
// and with a JSON body.
func do(t *testing.T, h http.Handler, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func register(t *testing.T, h http.Handler, email, displayName string) (string, int64) {
	t.Helper()

	rr := do(t, h, "POST", "/register", "", map[string]string{
		"email":        email,
		"password":     "password",
		"display_name": displayName,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var session struct {
		Token  string `json:"token"`
		UserID int64  `json:"user_id"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&session))
	require.NotEmpty(t, session.Token)
	return session.Token, session.UserID
}

func TestAPIRequiresAuth(t *testing.T) {
	h := setupNewServer(t)

	rr := do(t, h, "GET", "/api/channels", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, h, "GET", "/api/channels", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMessageRoundTrip(t *testing.T) {
	h := setupNewServer(t)

	aliceToken, _ := register(t, h, "alice@test.com", "Alice")
	bobToken, bobID := register(t, h, "bob@test.com", "Bob")

	rr := do(t, h, "POST", "/api/channel", aliceToken, map[string]interface{}{
		"name":   "general",
		"public": true,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var channel huddle.Channel
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&channel))

	rr = do(t, h, "POST", fmt.Sprintf("/api/channel/%d/invite", channel.ID), aliceToken,
		map[string]int64{"user_id": bobID})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, "POST", fmt.Sprintf("/api/channel/%d/message", channel.ID), aliceToken,
		map[string]string{"body": "welcome @bob!"})
	require.Equal(t, http.StatusOK, rr.Code)

	var sent struct {
		MessageID int64 `json:"message_id"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sent))

	rr = do(t, h, "GET", fmt.Sprintf("/api/channel/%d/messages", channel.ID), bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var page huddle.Page
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&page))
	require.Len(t, page.Messages, 1)
	assert.Equal(t, sent.MessageID, page.Messages[0].ID)
	assert.Equal(t, "welcome @bob!", page.Messages[0].Body)
	assert.Equal(t, -1, page.End)

	// bob was invited and then tagged
	rr = do(t, h, "GET", "/api/notifications", bobToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var notifications []*huddle.Notification
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&notifications))
	require.Len(t, notifications, 2)
	assert.Contains(t, notifications[0].Message, "tagged you in general")
	assert.Contains(t, notifications[1].Message, "added you to general")
}

func TestErrorStatusMapping(t *testing.T) {
	h := setupNewServer(t)

	aliceToken, _ := register(t, h, "alice@test.com", "Alice")
	bobToken, _ := register(t, h, "bob@test.com", "Bob")

	// validation failures are 400
	rr := do(t, h, "POST", "/api/channel", aliceToken, map[string]interface{}{
		"name":   "",
		"public": true,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, "POST", "/api/channel", aliceToken, map[string]interface{}{
		"name":   "general",
		"public": true,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var channel huddle.Channel
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&channel))

	// authorization failures are 403
	rr = do(t, h, "POST", fmt.Sprintf("/api/channel/%d/message", channel.ID), bobToken,
		map[string]string{"body": "let me in"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	h := setupNewServer(t)

	token, _ := register(t, h, "alice@test.com", "Alice")

	rr := do(t, h, "POST", "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, "GET", "/api/channels", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
