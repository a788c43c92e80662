package identity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "agriwell-test"

// keyServer serves a single rsa public key as a jwks document
func keyServer(t *testing.T) (jwk.Key, *httptest.Server, *int32) {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	key, err := jwk.FromRaw(raw)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, "test-key"))
	require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.RS256))

	pub, err := jwk.PublicKeyOf(key)
	require.NoError(t, err)
	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(server.Close)
	return key, server, &hits
}

func signRS256(t *testing.T, key jwk.Key, claims map[string]any) string {
	t.Helper()
	tok := jwt.New()
	for k, v := range claims {
		require.NoError(t, tok.Set(k, v))
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, key))
	require.NoError(t, err)
	return string(signed)
}

func TestVerifierUnverifiedParse(t *testing.T) {
	v := NewVerifier("", "")
	raw := signToken(t, map[string]any{
		"sub":      "sub-id",
		"user_id":  "user-abc",
		"firebase": map[string]any{"sign_in_provider": "anonymous"},
	})

	sess, err := v.ParseSession(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, &Session{IdentityID: "user-abc", IsAnonymous: true}, sess)
}

func TestVerifierFallsBackToSubject(t *testing.T) {
	v := NewVerifier("", "")

	sess, err := v.ParseSession(context.Background(), signToken(t, map[string]any{"sub": "sub-id"}))
	require.NoError(t, err)
	assert.Equal(t, &Session{IdentityID: "sub-id"}, sess)
}

func TestVerifierRejectsGarbage(t *testing.T) {
	v := NewVerifier("", "")
	_, err := v.ParseSession(context.Background(), "not-a-jwt")
	require.Error(t, err)
}

func TestVerifierChecksSignatureIssuerAndAudience(t *testing.T) {
	key, server, hits := keyServer(t)
	v := NewVerifier(server.URL, testProject)

	good := signRS256(t, key, map[string]any{
		"iss":     "https://securetoken.google.com/" + testProject,
		"aud":     testProject,
		"exp":     time.Now().Add(time.Hour),
		"user_id": "user-abc",
	})
	sess, err := v.ParseSession(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, "user-abc", sess.IdentityID)

	wrongAudience := signRS256(t, key, map[string]any{
		"iss":     "https://securetoken.google.com/" + testProject,
		"aud":     "someone-else",
		"exp":     time.Now().Add(time.Hour),
		"user_id": "user-abc",
	})
	_, err = v.ParseSession(context.Background(), wrongAudience)
	require.Error(t, err)

	expired := signRS256(t, key, map[string]any{
		"iss":     "https://securetoken.google.com/" + testProject,
		"aud":     testProject,
		"exp":     time.Now().Add(-time.Hour),
		"user_id": "user-abc",
	})
	_, err = v.ParseSession(context.Background(), expired)
	require.Error(t, err)

	// hs256 tokens are not in the key set
	_, err = v.ParseSession(context.Background(), signToken(t, map[string]any{"user_id": "user-abc"}))
	require.Error(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(hits), "key set is cached")
}

func TestVerifierKeySetFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	v := NewVerifier(server.URL, testProject)
	_, err := v.ParseSession(context.Background(), signToken(t, map[string]any{"user_id": "user-abc"}))
	require.Error(t, err)
}
