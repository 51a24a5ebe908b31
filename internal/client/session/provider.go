// Package session is the client's session store. It holds at most one
// signed-in session and tells subscribers whenever that changes.
package session

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"NameMyChild/internal/auth"
	"NameMyChild/internal/client/api"
	"NameMyChild/internal/models"
	"NameMyChild/internal/notify"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type User struct {
	ID    int64
	Email string
}

type Session struct {
	AccessToken string
	User        User
}

// Provider is safe for concurrent use.
type Provider struct {
	api    *api.Client
	dialer *websocket.Dialer
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	current       *Session
	watchCancel   context.CancelFunc // remote sign-out listener for current
	pendingCancel context.CancelFunc // magic-link wait

	// notifyMu serializes callbacks with Unsubscribe.
	notifyMu sync.Mutex
	subs     map[uint64]func(*Session)
	nextID   uint64
}

func NewProvider(client *api.Client, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Provider{
		api:    client,
		dialer: websocket.DefaultDialer,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[uint64]func(*Session)),
	}
}

// Subscription is released with Unsubscribe.
type Subscription struct {
	p    *Provider
	id   uint64
	once sync.Once
}

// Unsubscribe is idempotent. Once it returns the callback is never invoked
// again. It must not be called from inside the callback.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.p.notifyMu.Lock()
		delete(s.p.subs, s.id)
		s.p.notifyMu.Unlock()
	})
}

// OnSessionChange registers cb for every session change: a *Session on
// sign-in, nil on sign-out.
func (p *Provider) OnSessionChange(cb func(*Session)) *Subscription {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	p.nextID++
	p.subs[p.nextID] = cb
	return &Subscription{p: p, id: p.nextID}
}

func (p *Provider) notify(s *Session) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	for _, cb := range p.subs {
		if s == nil {
			cb(nil)
			continue
		}
		cp := *s
		cb(&cp)
	}
}

// Session returns a copy of the current session, or nil.
func (p *Provider) Session() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	cp := *p.current
	return &cp
}

// Adopt installs a token obtained out of band (for example from the verify
// page) without notifying subscribers. CurrentUser validates it.
func (p *Provider) Adopt(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopWatchLocked()
	p.current = &Session{AccessToken: token}
}

// CurrentUser asks the server who the current token belongs to. Without a
// session it returns nil, nil.
func (p *Provider) CurrentUser(ctx context.Context) (*User, error) {
	s := p.Session()
	if s == nil {
		return nil, nil
	}
	u, err := p.api.Profile(ctx, s.AccessToken)
	if err != nil {
		return nil, err
	}
	user := User{ID: u.ID, Email: u.Email}

	p.mu.Lock()
	if p.current != nil && p.current.AccessToken == s.AccessToken {
		p.current.User = user
		if p.watchCancel == nil {
			p.startWatchLocked(s.AccessToken)
		}
	}
	p.mu.Unlock()
	return &user, nil
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) error {
	token, err := p.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	u, err := p.api.Profile(ctx, token)
	if err != nil {
		return err
	}
	p.setSession(&Session{AccessToken: token, User: User{ID: u.ID, Email: u.Email}})
	return nil
}

// SignInWithMagicLink requests a link and returns once it has been sent. The
// session arrives later through OnSessionChange when the link is opened. A
// new request replaces any earlier pending one.
func (p *Provider) SignInWithMagicLink(ctx context.Context, email string) error {
	verifier := auth.NewCodeVerifier()
	requestID, err := p.api.RequestMagicLink(ctx, email, auth.CodeChallenge(verifier))
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.pendingCancel != nil {
		p.pendingCancel()
	}
	waitCtx, cancel := context.WithCancel(p.ctx)
	p.pendingCancel = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	query := url.Values{"request_id": {requestID}, "code_verifier": {verifier}}
	go p.listen(waitCtx, query, func(ev notify.Event) {
		if ev.Type != notify.EventSignedIn || ev.AccessToken == "" {
			return
		}
		s := &Session{AccessToken: ev.AccessToken}
		if ev.User != nil {
			s.User = toUser(*ev.User)
		}
		p.setSession(s)
	})
	return nil
}

// SignOut clears the local session first, then tells the server. Calling it
// while signed out does nothing and returns nil.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	s := p.current
	p.current = nil
	p.stopWatchLocked()
	p.mu.Unlock()

	if s == nil {
		return nil
	}
	p.notify(nil)
	return p.api.SignOut(ctx, s.AccessToken)
}

// Close stops background listeners and waits for them.
func (p *Provider) Close() {
	p.cancel()
	p.wg.Wait()
}

func (p *Provider) setSession(s *Session) {
	p.mu.Lock()
	p.current = s
	if p.pendingCancel != nil {
		p.pendingCancel()
		p.pendingCancel = nil
	}
	p.stopWatchLocked()
	p.startWatchLocked(s.AccessToken)
	p.mu.Unlock()

	p.notify(s)
}

func (p *Provider) startWatchLocked(token string) {
	if p.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.watchCancel = cancel

	p.wg.Add(1)
	go p.listen(ctx, url.Values{"token": {token}}, func(ev notify.Event) {
		if ev.Type != notify.EventSignedOut {
			return
		}
		p.mu.Lock()
		if p.current == nil || p.current.AccessToken != token {
			p.mu.Unlock()
			return
		}
		p.current = nil
		p.stopWatchLocked()
		p.mu.Unlock()
		p.notify(nil)
	})
}

func (p *Provider) stopWatchLocked() {
	if p.watchCancel != nil {
		p.watchCancel()
		p.watchCancel = nil
	}
}

// listen waits for a single session event on /ws/session.
func (p *Provider) listen(ctx context.Context, query url.Values, onEvent func(notify.Event)) {
	defer p.wg.Done()

	conn, _, err := p.dialer.DialContext(ctx, p.api.SessionEventsURL(query), nil)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("session listener: dial failed", zap.Error(err))
		}
		return
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	var ev notify.Event
	if err := conn.ReadJSON(&ev); err != nil {
		var closeErr *websocket.CloseError
		if ctx.Err() == nil && !errors.As(err, &closeErr) {
			p.logger.Warn("session listener: read failed", zap.Error(err))
		}
		return
	}
	if ctx.Err() != nil {
		return
	}
	onEvent(ev)
}

func toUser(u models.User) User {
	return User{ID: u.ID, Email: u.Email}
}
