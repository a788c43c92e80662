package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// implemented using https://github.com/lestrrat-go/jwx

const (
	claimUserId         = "user_id"
	claimFirebase       = "firebase"
	claimSignInProvider = "sign_in_provider"
	providerAnonymous   = "anonymous"

	defaultKeySetTtl = time.Hour
)

// Verifier turns the id tokens handed out by the provider into sessions.
// With no jwks url configured tokens are parsed without signature checks.
type Verifier struct {
	jwksUrl  string
	issuer   string
	audience string

	mutex     sync.Mutex
	keySet    jwk.Set
	fetchedAt time.Time
	keySetTtl time.Duration
}

// NewVerifier returns a verifier for tokens issued to projectId. Issuer &
// audience are only checked when the signature is verified as well.
func NewVerifier(jwksUrl, projectId string) *Verifier {
	v := &Verifier{
		jwksUrl:   jwksUrl,
		keySetTtl: defaultKeySetTtl,
	}
	if projectId != "" {
		v.issuer = fmt.Sprintf("https://securetoken.google.com/%v", projectId)
		v.audience = projectId
	}
	return v
}

// ParseSession parses the raw id token & extracts the session it describes
func (v *Verifier) ParseSession(ctx context.Context, raw string) (*Session, error) {
	token, err := v.parse(ctx, raw)
	if err != nil {
		return nil, err
	}
	return sessionFromToken(token), nil
}

func (v *Verifier) parse(ctx context.Context, raw string) (jwt.Token, error) {
	if v.jwksUrl == "" {
		token, err := jwt.Parse([]byte(raw), jwt.WithVerify(false), jwt.WithValidate(false))
		return token, errors.Wrap(err, "parsing id token")
	}

	set, err := v.keys(ctx)
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParseOption{
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(30 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer), jwt.WithAudience(v.audience))
	}
	token, err := jwt.Parse([]byte(raw), opts...)
	return token, errors.Wrap(err, "verifying id token")
}

// keys returns the cached key set, fetching it again once it is older than the ttl
func (v *Verifier) keys(ctx context.Context) (jwk.Set, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if v.keySet != nil && time.Since(v.fetchedAt) < v.keySetTtl {
		return v.keySet, nil
	}

	log.WithField("url", v.jwksUrl).Debug("fetching provider key set")
	set, err := jwk.Fetch(ctx, v.jwksUrl)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching key set from %v", v.jwksUrl)
	}
	v.keySet = set
	v.fetchedAt = time.Now()
	return set, nil
}

// sessionFromToken reads the identity out of the token claims. user_id wins
// over sub; a missing identity is left empty for the caller to fill in.
func sessionFromToken(token jwt.Token) *Session {
	sess := &Session{IdentityID: token.Subject()}

	if v, ok := token.Get(claimUserId); ok {
		if id, ok := v.(string); ok && id != "" {
			sess.IdentityID = id
		}
	}

	if v, ok := token.Get(claimFirebase); ok {
		if fb, ok := v.(map[string]interface{}); ok {
			sess.IsAnonymous = fb[claimSignInProvider] == providerAnonymous
		}
	}
	return sess
}
