package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sushihentaime/toolshelf/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

// maxCachedSession bounds how long a resolved session is served from the cache.
const maxCachedSession = 5 * time.Minute

func NewUserService(db *sql.DB, cache *common.Cache) *UserService {
	return &UserService{
		m: newUserModel(db),
		c: cache,
	}
}

// CreateUser creates an account. Admin accounts are granted the catalog:admin permission.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string, admin bool) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Email:    email,
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.m.insertUser(tx, ctx, &u); err != nil {
		return nil, err
	}

	if admin {
		if err := s.m.addUserPermission(tx, ctx, u.ID, PermissionCatalogAdmin); err != nil {
			return nil, err
		}
		u.Permissions = Permissions{PermissionCatalogAdmin}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &u, nil
}

// LoginUser checks the credentials and issues a new access token. login is a username or an email address.
func (s *UserService) LoginUser(ctx context.Context, login, password string) (*AuthToken, error) {
	login = strings.TrimSpace(login)

	v := common.NewValidator()
	validateLogin(v, login, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByLogin(ctx, login)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.matches(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	if user.Password.needsRehash() {
		if err := user.Password.set(password); err != nil {
			return nil, err
		}

		if err := s.m.updateUserPassword(ctx, user.Password, user.ID, user.Version); err != nil {
			return nil, err
		}
	}

	return s.m.createAuthToken(ctx, user.ID)
}

// GetUserByAccessToken resolves a session. Resolved sessions are cached until the token expires or
// for maxCachedSession, whichever comes first.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)
	key := common.CacheKeyUserByAccessToken(hash)

	if cached, ok := s.c.Get(key); ok {
		return cached.(*User), nil
	}

	user, expiry, err := s.m.getUserByToken(ctx, hash)
	if err != nil {
		return nil, err
	}

	ttl := min(time.Until(expiry), maxCachedSession)
	if ttl > 0 {
		s.c.Set(key, user, ttl)
	}

	return user, nil
}

// LogoutUser revokes every access token of the user and drops their cached sessions.
func (s *UserService) LogoutUser(ctx context.Context, user *User) error {
	if user.IsAnonymous() {
		return common.ErrAuthRequired
	}

	if _, err := s.m.deleteAuthTokens(ctx, user.ID); err != nil {
		return err
	}

	for key, item := range s.c.Items() {
		if cached, ok := item.Object.(*User); ok && cached.ID == user.ID {
			s.c.Delete(key)
		}
	}

	return nil
}
