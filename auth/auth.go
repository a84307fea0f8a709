// Package auth handles admin credentials and login sessions.
package auth

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-site-backend/models"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password. The two cases are not distinguished.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserStore is the slice of storage.Storage that login needs.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Authenticator verifies credentials and resolves sessions to users.
type Authenticator struct {
	users    UserStore
	sessions *Sessions
}

func NewAuthenticator(users UserStore, sessions *Sessions) *Authenticator {
	return &Authenticator{users: users, sessions: sessions}
}

// Logout revokes token so it can no longer open a session.
func (a *Authenticator) Logout(token string) {
	a.sessions.Revoke(token)
}

// Login checks username and password and issues a session token.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*models.User, string, Session, error) {
	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, "", Session{}, err
	}
	if user == nil {
		return nil, "", Session{}, ErrInvalidCredentials
	}
	ok, err := CheckPassword(user.Password, password)
	if err != nil {
		return nil, "", Session{}, err
	}
	if !ok {
		return nil, "", Session{}, ErrInvalidCredentials
	}

	token, session, err := a.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", Session{}, err
	}
	return user, token, session, nil
}

// Resolve returns the user behind token. A valid token whose user no longer
// exists is an invalid session.
func (a *Authenticator) Resolve(ctx context.Context, token string) (*models.User, error) {
	session, err := a.sessions.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := a.users.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidSession
	}
	return user, nil
}
