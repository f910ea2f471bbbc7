package security

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName is the cookie holding the signed game session token.
const SessionCookieName = "quiz_session"

const sessionIssuer = "hyakuninquiz"

// ErrInvalidSessionToken is returned for tokens that fail verification.
var ErrInvalidSessionToken = errors.New("invalid session token")

// NewSessionID creates a new UUID for game session identification
func NewSessionID() string {
	return uuid.New().String()
}

// SessionSigner issues and verifies HS256 tokens whose subject is a game session id.
type SessionSigner struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewSessionSigner creates a signer. Tokens expire after lifetime.
func NewSessionSigner(secret string, lifetime time.Duration) *SessionSigner {
	return &SessionSigner{secret: []byte(secret), lifetime: lifetime, now: time.Now}
}

// Lifetime returns how long issued tokens stay valid.
func (s *SessionSigner) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs a token for sessionID.
func (s *SessionSigner) Issue(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrMissingSessionID
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    sessionIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns the session id it carries.
func (s *SessionSigner) Parse(token string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidSessionToken)
	}
	return claims.Subject, nil
}

// IsSecureRequest determines if the request is over HTTPS
// Checks TLS connection, X-Forwarded-Proto header (for reverse proxies), and URL scheme
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	return r.URL.Scheme == "https"
}

// CreateSessionCookie creates a session cookie with proper security flags
// The Secure flag is automatically set based on the request scheme (HTTPS detection)
func CreateSessionCookie(r *http.Request, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}
