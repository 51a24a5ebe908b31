package app

import (
	"context"
	"strings"

	"NameMyChild/internal/client/session"
	"NameMyChild/internal/names"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type focus int

const (
	focusEmail focus = iota
	focusPassword
)

const (
	focusGender focus = iota
	focusOrigin
	focusMeaning
	focusGenerate
	focusResults
	homeFocusCount
)

type Options struct {
	Sessions SessionProvider
	Backend  Backend
	// Events delivers provider notifications. The owner of the provider
	// subscription writes to it.
	Events <-chan *session.Session
	Logger *zap.Logger
	// Prefs prefills the preference form. An unknown gender key is ignored.
	Prefs names.Preferences
}

// Model is the bubbletea model for the whole application.
type Model struct {
	ctx      context.Context
	sessions SessionProvider
	backend  Backend
	events   <-chan *session.Session
	logger   *zap.Logger

	state State

	email    textinput.Model
	password textinput.Model
	origin   textinput.Model
	meaning  textinput.Model

	loginFocus focus
	homeFocus  focus
	genderIdx  int
	cursor     int

	width  int
	styles styles
}

func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "Password (leave empty for a magic link)"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 40

	origin := textinput.New()
	origin.Placeholder = "Origin (e.g., Hebrew, Latin)"
	origin.CharLimit = 64
	origin.Width = 40

	meaning := textinput.New()
	meaning.Placeholder = `Meaning (e.g., "strong", "wisdom")`
	meaning.CharLimit = 64
	meaning.Width = 40

	prefs := opts.Prefs
	if _, ok := names.GetGender(prefs.Gender); !ok {
		logger.Warn("New(): unknown gender ignored", zap.String("gender", prefs.Gender))
		prefs.Gender = ""
	}
	genderIdx := 0
	for i, g := range names.Genders {
		if g.Key == prefs.Gender {
			genderIdx = i
		}
	}
	origin.SetValue(prefs.Origin)
	meaning.SetValue(prefs.Meaning)
	prefs.Origin = origin.Value()
	prefs.Meaning = meaning.Value()

	return Model{
		ctx:       ctx,
		sessions:  opts.Sessions,
		backend:   opts.Backend,
		events:    opts.Events,
		logger:    logger,
		state:     State{Page: PageLoading, Prefs: prefs},
		email:     email,
		password:  password,
		origin:    origin,
		meaning:   meaning,
		genderIdx: genderIdx,
		styles:    defaultStyles(),
	}
}

// State returns a copy of the current state.
func (m Model) State() State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCurrentUser(), waitForSession(m.events), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case currentUserMsg:
		if msg.err != nil {
			m.logger.Warn("Update(): current user lookup failed", zap.Error(msg.err))
		}
		// a notification that arrived first wins
		if m.state.Page != PageLoading {
			return m, nil
		}
		if msg.user == nil {
			m.state.SignOut()
			cmd := m.setLoginFocus(focusEmail)
			return m, cmd
		}
		cmd := m.enterHome(*msg.user)
		return m, cmd

	case sessionChangedMsg:
		if msg.closed {
			return m, nil
		}
		next := waitForSession(m.events)
		if msg.session == nil {
			m.logger.Info("Update(): signed out")
			m.state.SignOut()
			cmd := tea.Batch(next, m.setLoginFocus(focusEmail))
			return m, cmd
		}
		m.logger.Info("Update(): signed in", zap.String("email", msg.session.User.Email))
		cmd := tea.Batch(next, m.enterHome(msg.session.User))
		return m, cmd

	case signInMsg:
		if msg.err != nil {
			m.logger.Warn("Update(): sign-in failed", zap.Error(msg.err))
			m.state.fail("Sign-in failed: " + msg.err.Error())
			return m, nil
		}
		m.password.Reset()
		if msg.magic {
			m.state.notice("Check " + msg.email + " for your sign-in link.")
		}
		return m, nil

	case signedOutMsg:
		if msg.err != nil {
			m.logger.Warn("Update(): sign-out request failed", zap.Error(msg.err))
		}
		// the provider already holds a session made after this sign-out
		if m.sessions.Session() != nil {
			m.logger.Debug("Update(): dropped late sign-out reply")
			return m, nil
		}
		m.state.SignOut()
		cmd := m.setLoginFocus(focusEmail)
		return m, cmd

	case savedNamesMsg:
		if msg.err != nil {
			m.logger.Error("Update(): error fetching saved names", zap.Error(msg.err))
		}
		m.state.ReplaceSaved(msg.userID, msg.saved, msg.err)
		return m, nil

	case generatedMsg:
		if msg.err != nil {
			m.logger.Error("Update(): error generating names", zap.Error(msg.err))
		}
		if !m.state.FinishGenerate(msg.seq, msg.names, msg.err) {
			m.logger.Debug("Update(): dropped stale generation", zap.Uint64("seq", msg.seq))
			return m, nil
		}
		if msg.err == nil {
			m.cursor = 0
		}
		return m, nil

	case nameSavedMsg:
		if msg.err != nil {
			m.logger.Error("Update(): error saving name", zap.String("name", msg.name), zap.Error(msg.err))
		}
		m.state.AppendSaved(msg.userID, msg.name, msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state.Page {
		case PageLogin:
			return m.updateLogin(msg)
		case PageHome:
			return m.updateHome(msg)
		}
		if msg.String() == "esc" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	// cursor blink and other input messages
	return m.forwardToInput(msg)
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		if m.loginFocus == focusEmail {
			cmd := m.setLoginFocus(focusPassword)
			return m, cmd
		}
		cmd := m.setLoginFocus(focusEmail)
		return m, cmd
	case "enter":
		email := strings.TrimSpace(m.email.Value())
		if email == "" {
			m.state.fail("Email is required.")
			return m, nil
		}
		m.state.notice("Signing in...")
		return m, m.signIn(email, m.password.Value())
	}
	return m.forwardToInput(msg)
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		return m, m.signOut()
	case "tab":
		cmd := m.setHomeFocus((m.homeFocus + 1) % homeFocusCount)
		return m, cmd
	case "shift+tab":
		cmd := m.setHomeFocus((m.homeFocus + homeFocusCount - 1) % homeFocusCount)
		return m, cmd
	}

	switch m.homeFocus {
	case focusGender:
		switch msg.String() {
		case "left", "h":
			m.selectGender(m.genderIdx - 1)
		case "right", "l", " ":
			m.selectGender(m.genderIdx + 1)
		case "enter":
			return m.startGenerate()
		}
		return m, nil

	case focusOrigin, focusMeaning:
		if msg.String() == "enter" {
			return m.startGenerate()
		}
		return m.forwardToInput(msg)

	case focusGenerate:
		if msg.String() == "enter" || msg.String() == " " {
			return m.startGenerate()
		}

	case focusResults:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.state.Generated)-1 {
				m.cursor++
			}
		case "enter", "s":
			return m.saveSelected()
		}
	}
	return m, nil
}

func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	if m.state.Busy {
		return m, nil
	}
	seq := m.state.BeginGenerate()
	prompt := names.BuildPrompt(m.state.Prefs)
	m.logger.Debug("startGenerate(): requesting names", zap.Uint64("seq", seq), zap.String("prompt", prompt))
	return m, m.generate(seq, prompt)
}

func (m Model) saveSelected() (tea.Model, tea.Cmd) {
	if m.state.User == nil || m.cursor >= len(m.state.Generated) {
		return m, nil
	}
	return m, m.save(m.state.User.ID, m.state.Generated[m.cursor])
}

func (m *Model) enterHome(u session.User) tea.Cmd {
	m.state.SignIn(u)
	m.cursor = 0
	return tea.Batch(m.refreshSaved(u.ID), m.setHomeFocus(focusGender))
}

func (m *Model) selectGender(idx int) {
	n := len(names.Genders)
	m.genderIdx = (idx%n + n) % n
	m.state.Prefs.Gender = names.Genders[m.genderIdx].Key
}

// forwardToInput hands msg to the focused text input and copies the result
// into the preferences.
func (m Model) forwardToInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state.Page {
	case PageLogin:
		if m.loginFocus == focusEmail {
			m.email, cmd = m.email.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
	case PageHome:
		switch m.homeFocus {
		case focusOrigin:
			m.origin, cmd = m.origin.Update(msg)
			m.state.Prefs.Origin = m.origin.Value()
		case focusMeaning:
			m.meaning, cmd = m.meaning.Update(msg)
			m.state.Prefs.Meaning = m.meaning.Value()
		}
	}
	return m, cmd
}

func (m *Model) setLoginFocus(f focus) tea.Cmd {
	m.loginFocus = f
	m.origin.Blur()
	m.meaning.Blur()
	if f == focusEmail {
		m.password.Blur()
		return m.email.Focus()
	}
	m.email.Blur()
	return m.password.Focus()
}

func (m *Model) setHomeFocus(f focus) tea.Cmd {
	m.homeFocus = f
	m.email.Blur()
	m.password.Blur()
	m.origin.Blur()
	m.meaning.Blur()
	switch f {
	case focusOrigin:
		return m.origin.Focus()
	case focusMeaning:
		return m.meaning.Focus()
	}
	return nil
}
