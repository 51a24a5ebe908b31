package app

import (
	"context"

	"NameMyChild/internal/client/api"
	"NameMyChild/internal/client/session"
	"NameMyChild/internal/models"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionProvider is the part of session.Provider the UI needs.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (*session.User, error)
	Session() *session.Session
	SignInWithPassword(ctx context.Context, email, password string) error
	SignInWithMagicLink(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
}

// Backend is the saved-names and generation API.
type Backend interface {
	GetSavedNames(ctx context.Context, token string) ([]models.SavedName, error)
	SaveName(ctx context.Context, token, name string) error
	GenerateNames(ctx context.Context, token, prompt string) ([]string, error)
}

type currentUserMsg struct {
	user *session.User
	err  error
}

// sessionChangedMsg carries a notification from the provider. closed is set
// when the event channel has been closed.
type sessionChangedMsg struct {
	session *session.Session
	closed  bool
}

type signInMsg struct {
	magic bool
	email string
	err   error
}

type signedOutMsg struct{ err error }

type savedNamesMsg struct {
	userID int64
	saved  []models.SavedName
	err    error
}

type generatedMsg struct {
	seq   uint64
	names []string
	err   error
}

type nameSavedMsg struct {
	userID int64
	name   string
	err    error
}

func waitForSession(events <-chan *session.Session) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-events
		return sessionChangedMsg{session: s, closed: !ok}
	}
}

func (m Model) loadCurrentUser() tea.Cmd {
	ctx, sessions := m.ctx, m.sessions
	return func() tea.Msg {
		u, err := sessions.CurrentUser(ctx)
		return currentUserMsg{user: u, err: err}
	}
}

func (m Model) signIn(email, password string) tea.Cmd {
	ctx, sessions := m.ctx, m.sessions
	if password == "" {
		return func() tea.Msg {
			return signInMsg{magic: true, email: email, err: sessions.SignInWithMagicLink(ctx, email)}
		}
	}
	return func() tea.Msg {
		return signInMsg{email: email, err: sessions.SignInWithPassword(ctx, email, password)}
	}
}

func (m Model) signOut() tea.Cmd {
	ctx, sessions := m.ctx, m.sessions
	return func() tea.Msg {
		return signedOutMsg{err: sessions.SignOut(ctx)}
	}
}

func (m Model) refreshSaved(userID int64) tea.Cmd {
	ctx, backend, token := m.ctx, m.backend, m.token()
	return func() tea.Msg {
		if token == "" {
			return savedNamesMsg{userID: userID, err: api.ErrNotSignedIn}
		}
		saved, err := backend.GetSavedNames(ctx, token)
		return savedNamesMsg{userID: userID, saved: saved, err: err}
	}
}

func (m Model) generate(seq uint64, prompt string) tea.Cmd {
	ctx, backend, token := m.ctx, m.backend, m.token()
	return func() tea.Msg {
		if token == "" {
			return generatedMsg{seq: seq, err: api.ErrNotSignedIn}
		}
		generated, err := backend.GenerateNames(ctx, token, prompt)
		return generatedMsg{seq: seq, names: generated, err: err}
	}
}

func (m Model) save(userID int64, name string) tea.Cmd {
	ctx, backend, token := m.ctx, m.backend, m.token()
	return func() tea.Msg {
		if token == "" {
			return nameSavedMsg{userID: userID, name: name, err: api.ErrNotSignedIn}
		}
		err := backend.SaveName(ctx, token, name)
		return nameSavedMsg{userID: userID, name: name, err: err}
	}
}

func (m Model) token() string {
	if s := m.sessions.Session(); s != nil {
		return s.AccessToken
	}
	return ""
}
