package names

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "Suggest 10 unique baby names"
const tail = `. Provide the names in a JSON array format like: { "names": ["Name1", "Name2", ...] }`

func TestBuildPrompt_NoPreferences(t *testing.T) {
	got := BuildPrompt(Preferences{})

	assert.Equal(t, base+tail, got)
	assert.NotContains(t, got, " for a ")
	assert.NotContains(t, got, " origin")
	assert.NotContains(t, got, " that mean ")
}

func TestBuildPrompt_SingleField(t *testing.T) {
	tests := []struct {
		name   string
		prefs  Preferences
		clause string
	}{
		{"gender", Preferences{Gender: "boy"}, " for a boy"},
		{"origin", Preferences{Origin: "Hebrew"}, " of Hebrew origin"},
		{"meaning", Preferences{Meaning: "wisdom"}, ` that mean "wisdom"`},
	}
	clauses := []string{" for a ", " origin", " that mean "}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildPrompt(tc.prefs)
			assert.Equal(t, base+tc.clause+tail, got)

			present := 0
			for _, c := range clauses {
				if strings.Contains(strings.TrimSuffix(got, tail), c) {
					present++
				}
			}
			assert.Equal(t, 1, present)
		})
	}
}

func TestBuildPrompt_GirlMeaningJoy(t *testing.T) {
	got := BuildPrompt(Preferences{Gender: "girl", Meaning: "joy"})

	assert.Equal(t, base+` for a girl that mean "joy"`+tail, got)
	assert.NotContains(t, got, "origin")
}

func TestBuildPrompt_AllFields(t *testing.T) {
	got := BuildPrompt(Preferences{Gender: "unisex", Origin: "Latin", Meaning: "strong"})
	assert.Equal(t, base+` for a unisex of Latin origin that mean "strong"`+tail, got)
}

func TestBuildPrompt_MeaningIsVerbatim(t *testing.T) {
	got := BuildPrompt(Preferences{Meaning: "brave \"lion\"\tand a\\b"})
	assert.Equal(t, base+" that mean \"brave \"lion\"\tand a\\b\""+tail, got)
	assert.NotContains(t, got, `\t`)
}

func TestParseNames(t *testing.T) {
	got, err := ParseNames(`{"names": ["Ada", " Noor ", ""]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ada", "Noor"}, got)
}

func TestParseNames_MissingKeyIsEmpty(t *testing.T) {
	got, err := ParseNames(`{}`)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseNames_Fenced(t *testing.T) {
	got, err := ParseNames("```json\n{\"names\": [\"Leo\"]}\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"Leo"}, got)
}

func TestParseNames_Malformed(t *testing.T) {
	_, err := ParseNames("Here are some names: Ada, Leo")
	assert.ErrorIs(t, err, ErrMalformedReply)
}

func TestGetGender(t *testing.T) {
	g, ok := GetGender("girl")
	require.True(t, ok)
	assert.Equal(t, "Girl", g.Label)

	_, ok = GetGender("dragon")
	assert.False(t, ok)
}
