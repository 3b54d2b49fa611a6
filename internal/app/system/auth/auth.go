// internal/app/system/auth/auth.go

// Package auth is the identity gate: it mints and verifies the bearer
// tokens that identify users, and exposes middleware that loads the
// verified Principal into the request context. Verification happens
// before any handler logic runs; a request or socket handshake that
// fails it is refused outright.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/noteflow/noteflow/internal/app/system/httpjson"
	"github.com/noteflow/noteflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrUnauthenticated is returned for missing, malformed, expired, or
// forged credentials. Callers must not distinguish between those cases
// in responses.
var ErrUnauthenticated = errors.New("unauthenticated")

// TokenCookie is the cookie the login endpoint sets and the gate reads.
const TokenCookie = "token"

// Principal is the authenticated identity attached to a request or
// socket connection. Immutable for the lifetime of the connection.
type Principal struct {
	ID   primitive.ObjectID
	Name string
}

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenManager mints and verifies bearer tokens.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	log    *zap.Logger
}

// NewTokenManager builds a TokenManager. The secret must be non-empty;
// expiry bounds how long a minted token is accepted.
func NewTokenManager(secret string, expiry time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: token secret must not be empty")
	}
	if expiry <= 0 {
		expiry = 2 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), expiry: expiry, log: logger}, nil
}

// Mint issues a signed token for the user.
func (tm *TokenManager) Mint(u models.User) (string, error) {
	now := time.Now()
	c := claims{
		Name: u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(tm.secret)
}

// Verify checks the token signature and expiry and returns the Principal
// it names. Any failure maps to ErrUnauthenticated.
func (tm *TokenManager) Verify(token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrUnauthenticated
	}
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Principal{}, ErrUnauthenticated
	}
	id, err := primitive.ObjectIDFromHex(c.Subject)
	if err != nil {
		return Principal{}, ErrUnauthenticated
	}
	return Principal{ID: id, Name: c.Name}, nil
}

/* ----------------------------- request gate ----------------------------- */

type ctxKey string

const principalKey ctxKey = "principal"

// CurrentPrincipal returns the Principal loaded by RequirePrincipal.
func CurrentPrincipal(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey).(Principal)
	return p, ok
}

// TokenFromRequest extracts the bearer credential from the token cookie,
// the Authorization header, or (for websocket handshakes, which cannot
// set headers from browsers) the "token" query parameter.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// RequirePrincipal verifies the request credential and injects the
// Principal into the context. Requests without a valid credential get a
// 401 envelope and never reach the wrapped handler.
func (tm *TokenManager) RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := tm.Verify(TokenFromRequest(r))
		if err != nil {
			tm.log.Warn("request rejected: invalid or missing token", zap.String("path", r.URL.Path))
			httpjson.Error(w, http.StatusUnauthorized, "not authorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey, p)))
	})
}

// WithTestPrincipal injects a Principal directly, bypassing token
// verification. For handler tests only.
func WithTestPrincipal(r *http.Request, p Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, p))
}

/* ------------------------------ passwords ------------------------------- */

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
