// Package app is the terminal user interface of Name My Child. All state
// lives in State and changes only inside Model.Update.
package app

import (
	"NameMyChild/internal/client/session"
	"NameMyChild/internal/models"
	"NameMyChild/internal/names"
)

type Page int

const (
	PageLoading Page = iota
	PageLogin
	PageHome
)

func (p Page) String() string {
	switch p {
	case PageLoading:
		return "loading"
	case PageLogin:
		return "login"
	case PageHome:
		return "home"
	}
	return "unknown"
}

type State struct {
	Page      Page
	User      *session.User
	Prefs     names.Preferences
	Generated []string
	Saved     []models.SavedName
	Busy      bool

	// Status holds the most recent failure or notice. Empty lists with an
	// empty Status mean "nothing yet", not "something went wrong".
	Status    string
	StatusErr bool

	// genSeq is the number of the latest generation request. Replies
	// carrying any other number are stale.
	genSeq uint64
}

// SignIn switches to the home page for u. The caller refreshes saved names.
func (s *State) SignIn(u session.User) {
	if s.User != nil && s.User.ID != u.ID {
		s.Generated = nil
		s.Saved = nil
		s.Busy = false
		s.genSeq++
	}
	s.Page = PageHome
	s.User = &u
	s.notice("")
}

// SignOut clears everything tied to the user. It is safe to call repeatedly.
func (s *State) SignOut() {
	s.Page = PageLogin
	s.User = nil
	s.Generated = nil
	s.Saved = nil
	s.Busy = false
	s.genSeq++
}

// BeginGenerate marks a new generation in flight and returns its number.
func (s *State) BeginGenerate() uint64 {
	s.genSeq++
	s.Busy = true
	s.notice("")
	return s.genSeq
}

// FinishGenerate applies the reply of generation seq. It reports false and
// changes nothing when a newer generation has been issued since.
func (s *State) FinishGenerate(seq uint64, generated []string, err error) bool {
	if seq != s.genSeq {
		return false
	}
	s.Busy = false
	if err != nil {
		s.fail("Failed to generate names: " + err.Error())
		return true
	}
	if generated == nil {
		generated = []string{}
	}
	s.Generated = generated
	return true
}

// ReplaceSaved applies a saved-names refresh for userID. Replies for a user
// who is no longer signed in are dropped.
func (s *State) ReplaceSaved(userID int64, saved []models.SavedName, err error) {
	if !s.isUser(userID) {
		return
	}
	if err != nil {
		s.fail("Failed to load saved names: " + err.Error())
		return
	}
	if saved == nil {
		saved = []models.SavedName{}
	}
	s.Saved = saved
}

// AppendSaved records a successful save locally. Duplicates are kept.
func (s *State) AppendSaved(userID int64, name string, err error) {
	if !s.isUser(userID) {
		return
	}
	if err != nil {
		s.fail("Failed to save name: " + err.Error())
		return
	}
	s.Saved = append(s.Saved, models.SavedName{Name: name})
}

func (s *State) isUser(id int64) bool {
	return s.User != nil && s.User.ID == id
}

func (s *State) fail(msg string) {
	s.Status = msg
	s.StatusErr = true
}

func (s *State) notice(msg string) {
	s.Status = msg
	s.StatusErr = false
}
