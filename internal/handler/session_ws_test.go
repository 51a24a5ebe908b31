package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"NameMyChild/internal/auth"
	"NameMyChild/internal/notify"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session?" + query
}

func linkQuery(requestID, verifier string) string {
	return url.Values{"request_id": {requestID}, "code_verifier": {verifier}}.Encode()
}

func waitForListener(t *testing.T, hub *notify.Hub, key string) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Listeners(key) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSessionEvents_MagicLinkSignIn(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	requestID, verifier := env.requestLink(t, "ws@example.com")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, linkQuery(requestID, verifier)), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForListener(t, env.hub, notify.RequestKey(requestID))

	w := env.do(http.MethodGet, strings.TrimPrefix(env.mailer.last(), "http://names.test"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ev notify.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notify.EventSignedIn, ev.Type)
	assert.NotEmpty(t, ev.AccessToken)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
	require.Eventually(t, func() bool {
		return env.hub.Listeners(notify.RequestKey(requestID)) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionEvents_SignOutPush(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()
	token := env.signIn(t, "push@example.com")
	claims, err := env.h.tokens.ValidateToken(token)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "token="+token), nil)
	require.NoError(t, err)
	defer conn.Close()
	waitForListener(t, env.hub, notify.SessionKey(claims.ID))

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/auth/signout", token, nil).Code)

	var ev notify.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notify.EventSignedOut, ev.Type)
}

func TestSessionEvents_ClientDisconnectReleasesSubscription(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	requestID, verifier := env.requestLink(t, "abandoned@example.com")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, linkQuery(requestID, verifier)), nil)
	require.NoError(t, err)
	waitForListener(t, env.hub, notify.RequestKey(requestID))

	conn.Close()
	require.Eventually(t, func() bool {
		return env.hub.Listeners(notify.RequestKey(requestID)) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionEvents_Rejections(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/ws/session", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/ws/session?token=junk", "", nil).Code)
}

// Knowing the request id is not enough to receive the token: only the app
// holding the verifier for the link's challenge may listen.
func TestSessionEvents_MagicLinkNeedsVerifier(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	requestID, _ := env.requestLink(t, "victim@example.com")

	for _, query := range []string{
		url.Values{"request_id": {requestID}}.Encode(),
		linkQuery(requestID, auth.NewCodeVerifier()),
		linkQuery("unknown-request", auth.NewCodeVerifier()),
	} {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, query), nil)
		if conn != nil {
			conn.Close()
		}
		require.ErrorIs(t, err, websocket.ErrBadHandshake, query)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, query)
		resp.Body.Close()
	}
	assert.Zero(t, env.hub.Listeners(notify.RequestKey(requestID)))

	// the victim opens the link; with nobody listening the token only goes
	// back to the victim's own browser
	w := env.do(http.MethodGet, strings.TrimPrefix(env.mailer.last(), "http://names.test"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vr VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vr))
	assert.NotEmpty(t, vr.Token)
}
