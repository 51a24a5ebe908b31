package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"NameMyChild/internal/auth"
	"NameMyChild/internal/client/api"
	"NameMyChild/internal/handler"
	"NameMyChild/internal/notify"
	"NameMyChild/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

const testSecret = "session-test-secret"

type linkMailer struct {
	mu    sync.Mutex
	links []string
}

func (m *linkMailer) SendMagicLink(_ context.Context, _, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, link)
	return nil
}

func (m *linkMailer) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[len(m.links)-1]
}

type fakeNames struct{}

func (fakeNames) Complete(context.Context, string) (string, error) { return `{"names":[]}`, nil }

type backend struct {
	srv       *httptest.Server
	hub       *notify.Hub
	mailer    *linkMailer
	tokens    *auth.TokenManager
	requestID chan string
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)

	b := &backend{
		hub:       notify.NewHub(),
		mailer:    &linkMailer{},
		tokens:    auth.NewTokenManager(testSecret, time.Hour),
		requestID: make(chan string, 4),
	}
	h := handler.New(handler.Options{
		Store:     store,
		Tokens:    b.tokens,
		Hub:       b.hub,
		Names:     fakeNames{},
		Mailer:    b.mailer,
		PublicURL: "http://names.test",
	})
	router := gin.New()
	h.Register(router)

	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("request_id"); id != "" && r.URL.Path == "/ws/session" {
			b.requestID <- id
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(func() {
		b.srv.Close()
		store.Close()
	})
	return b
}

func (b *backend) signup(t *testing.T, email string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": "password123"})
	resp, err := http.Post(b.srv.URL+"/signup", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (b *backend) waitListener(t *testing.T, key string) {
	t.Helper()
	require.Eventually(t, func() bool { return b.hub.Listeners(key) > 0 },
		2*time.Second, 10*time.Millisecond)
}

func (b *backend) sessionKey(t *testing.T, token string) string {
	t.Helper()
	claims, err := b.tokens.ValidateToken(token)
	require.NoError(t, err)
	return notify.SessionKey(claims.ID)
}

func newProvider(t *testing.T, b *backend) (*Provider, *api.Client) {
	t.Helper()
	client := api.New(b.srv.URL, 2*time.Second)
	p := NewProvider(client, nil)
	t.Cleanup(p.Close)
	return p, client
}

// record collects every notification.
func record(p *Provider) (<-chan *Session, *Subscription) {
	ch := make(chan *Session, 8)
	sub := p.OnSessionChange(func(s *Session) { ch <- s })
	return ch, sub
}

func next(t *testing.T, ch <-chan *Session) *Session {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no session notification")
		return nil
	}
}

func TestCurrentUser_NoSession(t *testing.T) {
	b := newBackend(t)
	p, _ := newProvider(t, b)

	u, err := p.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Nil(t, p.Session())
}

func TestSignInWithPassword(t *testing.T) {
	b := newBackend(t)
	b.signup(t, "parent@example.com")
	p, _ := newProvider(t, b)
	ch, sub := record(p)
	defer sub.Unsubscribe()

	require.NoError(t, p.SignInWithPassword(context.Background(), "parent@example.com", "password123"))

	s := next(t, ch)
	require.NotNil(t, s)
	assert.Equal(t, "parent@example.com", s.User.Email)
	assert.NotZero(t, s.User.ID)

	u, err := p.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, s.User, *u)
}

func TestSignInWithPassword_WrongPassword(t *testing.T) {
	b := newBackend(t)
	b.signup(t, "parent@example.com")
	p, _ := newProvider(t, b)
	ch, sub := record(p)
	defer sub.Unsubscribe()

	err := p.SignInWithPassword(context.Background(), "parent@example.com", "nope")
	require.Error(t, err)
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized))
	assert.Nil(t, p.Session())
	assert.Empty(t, ch)
}

func TestSignInWithMagicLink(t *testing.T) {
	b := newBackend(t)
	p, _ := newProvider(t, b)
	ch, sub := record(p)
	defer sub.Unsubscribe()

	require.NoError(t, p.SignInWithMagicLink(context.Background(), "ml@example.com"))
	assert.Nil(t, p.Session(), "session only arrives once the link is opened")

	var requestID string
	select {
	case requestID = <-b.requestID:
	case <-time.After(2 * time.Second):
		t.Fatal("provider never listened for the link")
	}
	b.waitListener(t, notify.RequestKey(requestID))

	path := strings.TrimPrefix(b.mailer.last(), "http://names.test")
	resp, err := http.Get(b.srv.URL + path)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s := next(t, ch)
	require.NotNil(t, s)
	assert.Equal(t, "ml@example.com", s.User.Email)
	assert.NotEmpty(t, s.AccessToken)
	assert.Equal(t, s.AccessToken, p.Session().AccessToken)
}

func TestSignOut_ClearsAndNotifies(t *testing.T) {
	b := newBackend(t)
	b.signup(t, "parent@example.com")
	p, client := newProvider(t, b)
	ch, sub := record(p)
	defer sub.Unsubscribe()

	require.NoError(t, p.SignInWithPassword(context.Background(), "parent@example.com", "password123"))
	token := next(t, ch).AccessToken

	require.NoError(t, p.SignOut(context.Background()))
	assert.Nil(t, next(t, ch))
	assert.Nil(t, p.Session())

	_, err := client.Profile(context.Background(), token)
	assert.True(t, api.IsStatus(err, http.StatusUnauthorized), "revoked token must be rejected")
}

func TestSignOut_WhileSignedOutIsNoop(t *testing.T) {
	b := newBackend(t)
	p, _ := newProvider(t, b)
	ch, sub := record(p)
	defer sub.Unsubscribe()

	require.NoError(t, p.SignOut(context.Background()))
	require.NoError(t, p.SignOut(context.Background()))
	assert.Empty(t, ch)
}

func TestSignOut_ServerFailureStillClears(t *testing.T) {
	b := newBackend(t)
	p, _ := newProvider(t, b)
	ch, sub := record(p)
	defer sub.Unsubscribe()

	p.Adopt("not-a-token")
	err := p.SignOut(context.Background())
	assert.Error(t, err)
	assert.Nil(t, p.Session())
	assert.Nil(t, next(t, ch))
}

func TestRemoteSignOut(t *testing.T) {
	b := newBackend(t)
	b.signup(t, "parent@example.com")
	p, _ := newProvider(t, b)
	ch, sub := record(p)
	defer sub.Unsubscribe()

	require.NoError(t, p.SignInWithPassword(context.Background(), "parent@example.com", "password123"))
	token := next(t, ch).AccessToken
	b.waitListener(t, b.sessionKey(t, token))

	// another client signs the same session out
	req, _ := http.NewRequest(http.MethodPost, b.srv.URL+"/auth/signout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Nil(t, next(t, ch))
	assert.Nil(t, p.Session())
}

func TestAdopt_ValidatedByCurrentUser(t *testing.T) {
	b := newBackend(t)
	b.signup(t, "parent@example.com")
	client := api.New(b.srv.URL, 2*time.Second)
	token, err := client.Login(context.Background(), "parent@example.com", "password123")
	require.NoError(t, err)

	p, _ := newProvider(t, b)
	ch, sub := record(p)
	defer sub.Unsubscribe()

	p.Adopt(token)
	u, err := p.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "parent@example.com", u.Email)
	assert.Equal(t, "parent@example.com", p.Session().User.Email)
	assert.Empty(t, ch, "adopting a token is not a session change")

	p.Adopt("garbage")
	_, err = p.CurrentUser(context.Background())
	assert.Error(t, err)
}

func TestUnsubscribe_StopsCallbacks(t *testing.T) {
	b := newBackend(t)
	b.signup(t, "parent@example.com")
	p, _ := newProvider(t, b)

	var mu sync.Mutex
	calls := 0
	sub := p.OnSessionChange(func(*Session) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	sub.Unsubscribe()
	sub.Unsubscribe()

	require.NoError(t, p.SignInWithPassword(context.Background(), "parent@example.com", "password123"))
	require.NoError(t, p.SignOut(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}

func TestCallbackReceivesCopy(t *testing.T) {
	b := newBackend(t)
	b.signup(t, "parent@example.com")
	p, _ := newProvider(t, b)
	ch, sub := record(p)
	defer sub.Unsubscribe()

	require.NoError(t, p.SignInWithPassword(context.Background(), "parent@example.com", "password123"))
	s := next(t, ch)
	s.AccessToken = "tampered"
	assert.NotEqual(t, "tampered", p.Session().AccessToken)
}
