package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	// CookieName is the HttpOnly cookie carrying the session token.
	CookieName = "portfolio_session"
	// DefaultSessionTTL matches a one day login.
	DefaultSessionTTL = 24 * time.Hour

	secretBytes = 32
)

var ErrInvalidSession = errors.New("invalid session")

// Session is a parsed, verified session token.
type Session struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

// Sessions issues and verifies HS256 session tokens. Revoked token IDs are
// kept until the token would have expired anyway.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewSessions returns a token issuer signing with secret. An empty secret is
// replaced by a random one, so tokens do not survive a restart.
func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, secretBytes)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn().Msg("SESSION_SECRET not set, using a random secret; sessions end on restart")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		secret:  key,
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

// Issue signs a token for userID.
func (s *Sessions) Issue(userID int64) (string, Session, error) {
	now := s.now()
	session := Session{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
	}
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        session.TokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return token, session, nil
}

// Parse verifies token and returns its session. Any failure, including an
// expired or revoked token, is reported as ErrInvalidSession.
func (s *Sessions) Parse(token string) (Session, error) {
	session, err := s.verify(token)
	if err != nil {
		return Session{}, err
	}
	if s.isRevoked(session.TokenID) {
		return Session{}, fmt.Errorf("%w: revoked", ErrInvalidSession)
	}
	return session, nil
}

// Revoke ends the session behind token. Revoking an invalid token is a no-op.
func (s *Sessions) Revoke(token string) {
	session, err := s.verify(token)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, expires := range s.revoked {
		if !expires.After(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[session.TokenID] = session.ExpiresAt
}

func (s *Sessions) isRevoked(tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok
}

func (s *Sessions) verify(token string) (Session, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.ID == "" {
		return Session{}, fmt.Errorf("%w: missing token id", ErrInvalidSession)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Session{}, fmt.Errorf("%w: bad subject %q", ErrInvalidSession, claims.Subject)
	}
	return Session{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
