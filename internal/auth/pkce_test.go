package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeChallenge(t *testing.T) {
	verifier := NewCodeVerifier()
	assert.NotEmpty(t, verifier)
	assert.NotEqual(t, verifier, NewCodeVerifier())

	challenge := CodeChallenge(verifier)
	assert.NotEqual(t, verifier, challenge)
	assert.True(t, VerifyCodeChallenge(challenge, verifier))
	assert.False(t, VerifyCodeChallenge(challenge, NewCodeVerifier()))
	assert.False(t, VerifyCodeChallenge(challenge, ""))
	assert.False(t, VerifyCodeChallenge("", ""))
}

// RFC 7636 appendix B
func TestCodeChallenge_KnownVector(t *testing.T) {
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		CodeChallenge("dBjjdJeBpLv2wjwrGSsC9BYUchW6kjTUsNUrqCKwHIA"))
}
