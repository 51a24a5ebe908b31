package app

import (
	"errors"
	"testing"

	"NameMyChild/internal/client/session"
	"NameMyChild/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestState_StaleGenerationDiscarded(t *testing.T) {
	var s State
	first := s.BeginGenerate()
	second := s.BeginGenerate()

	assert.False(t, s.FinishGenerate(first, []string{"Old"}, nil))
	assert.True(t, s.Busy, "busy until the latest request settles")
	assert.Empty(t, s.Generated)

	assert.True(t, s.FinishGenerate(second, []string{"New"}, nil))
	assert.False(t, s.Busy)
	assert.Equal(t, []string{"New"}, s.Generated)
}

func TestState_GenerateFailureKeepsList(t *testing.T) {
	s := State{Generated: []string{"Ada"}}
	seq := s.BeginGenerate()
	s.FinishGenerate(seq, nil, errors.New("boom"))

	assert.Equal(t, []string{"Ada"}, s.Generated)
	assert.False(t, s.Busy)
	assert.True(t, s.StatusErr)
}

func TestState_NilGeneratedBecomesEmpty(t *testing.T) {
	s := State{Generated: []string{"Ada"}}
	s.FinishGenerate(s.BeginGenerate(), nil, nil)
	assert.NotNil(t, s.Generated)
	assert.Empty(t, s.Generated)
}

func TestState_SignOutClearsAndIsIdempotent(t *testing.T) {
	s := State{Page: PageHome, User: &session.User{ID: 1}, Generated: []string{"Ada"},
		Saved: []models.SavedName{{Name: "Leo"}}}
	seq := s.BeginGenerate()

	s.SignOut()
	s.SignOut()

	assert.Equal(t, PageLogin, s.Page)
	assert.Nil(t, s.User)
	assert.Empty(t, s.Generated)
	assert.Empty(t, s.Saved)
	assert.False(t, s.Busy)
	assert.False(t, s.FinishGenerate(seq, []string{"Late"}, nil))
	assert.Empty(t, s.Generated)
}

func TestState_SavedForOtherUserDropped(t *testing.T) {
	s := State{User: &session.User{ID: 2}}
	s.ReplaceSaved(1, []models.SavedName{{Name: "Ada"}}, nil)
	s.AppendSaved(1, "Leo", nil)
	assert.Empty(t, s.Saved)

	s.ReplaceSaved(2, []models.SavedName{{Name: "Ada"}}, nil)
	s.AppendSaved(2, "Ada", nil)
	assert.Equal(t, []models.SavedName{{Name: "Ada"}, {Name: "Ada"}}, s.Saved)
}

func TestState_SwitchingUserClearsLists(t *testing.T) {
	var s State
	s.SignIn(session.User{ID: 1})
	s.Generated = []string{"Ada"}
	s.Saved = []models.SavedName{{Name: "Ada"}}

	s.SignIn(session.User{ID: 1})
	assert.Equal(t, []string{"Ada"}, s.Generated, "same user keeps lists")

	s.SignIn(session.User{ID: 2})
	assert.Empty(t, s.Generated)
	assert.Empty(t, s.Saved)
	assert.Equal(t, int64(2), s.User.ID)
}
