package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/simplecdn/core/handler"
	"github.com/dmitrymomot/simplecdn/core/response"
)

// ErrNoCredentials is returned by BasicAuthWithConfig when neither a password
// nor a password hash is configured.
var ErrNoCredentials = errors.New("middleware: basic auth requires a password or a password hash")

// DefaultRealm is announced in the WWW-Authenticate challenge.
const DefaultRealm = "simplecdn"

// BasicAuthConfig configures the HTTP Basic guard.
type BasicAuthConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Username is checked only when non-empty.
	Username string

	// Password is the shared secret, compared in constant time.
	Password string

	// PasswordHash is a bcrypt hash. It takes precedence over Password.
	PasswordHash string

	// Realm defaults to DefaultRealm.
	Realm string
}

// BasicAuth guards routes with a single shared password. Any username is accepted.
// It panics when password is empty.
func BasicAuth[C handler.Context](password string) handler.Middleware[C] {
	mw, err := BasicAuthWithConfig[C](BasicAuthConfig{Password: password})
	if err != nil {
		panic(err)
	}
	return mw
}

// BasicAuthWithConfig creates an HTTP Basic guard with custom configuration.
// Rejected requests get 401 with a WWW-Authenticate challenge.
func BasicAuthWithConfig[C handler.Context](cfg BasicAuthConfig) (handler.Middleware[C], error) {
	if cfg.Password == "" && cfg.PasswordHash == "" {
		return nil, ErrNoCredentials
	}
	if cfg.Realm == "" {
		cfg.Realm = DefaultRealm
	}

	hash := []byte(cfg.PasswordHash)
	if len(hash) > 0 {
		if _, err := bcrypt.Cost(hash); err != nil {
			return nil, err
		}
	}

	// Fixed-length digests keep the comparison independent of input length.
	wantUser := sha256.Sum256([]byte(cfg.Username))
	wantPass := sha256.Sum256([]byte(cfg.Password))
	challenge := "Basic realm=" + strconv.Quote(cfg.Realm) + `, charset="UTF-8"`

	verify := func(user, pass string) bool {
		userOK := true
		if cfg.Username != "" {
			gotUser := sha256.Sum256([]byte(user))
			userOK = subtle.ConstantTimeCompare(gotUser[:], wantUser[:]) == 1
		}

		var passOK bool
		if len(hash) > 0 {
			passOK = bcrypt.CompareHashAndPassword(hash, []byte(pass)) == nil
		} else {
			gotPass := sha256.Sum256([]byte(pass))
			passOK = subtle.ConstantTimeCompare(gotPass[:], wantPass[:]) == 1
		}
		return userOK && passOK
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			user, pass, ok := ctx.Request().BasicAuth()
			if !ok || !verify(user, pass) {
				ctx.ResponseWriter().Header().Set("WWW-Authenticate", challenge)
				return response.Error(response.ErrUnauthorized)
			}

			return next(ctx)
		}
	}, nil
}
