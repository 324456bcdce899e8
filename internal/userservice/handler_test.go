package userservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/toolshelf/internal/common"
)

const testPassword = "TestPassword123!"

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, func() error) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM users")
		if err != nil {
			return err
		}

		cache.Flush()

		return nil
	}

	return NewUserService(db, cache), db, cleanup
}

func TestCreateUser(t *testing.T) {
	s, db, cleanup := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		username    string
		email       string
		password    string
		admin       bool
		expectedErr error
	}{
		{
			name:     "admin",
			username: "admin",
			email:    "admin@example.com",
			password: testPassword,
			admin:    true,
		},
		{
			name:     "reader",
			username: "reader",
			email:    "reader@example.com",
			password: testPassword,
		},
		{
			name:        "empty payload",
			expectedErr: common.ValidationError{Errors: map[string]string{"username": "must be provided", "email": "must be provided", "password": "must be provided"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() { assert.NoError(t, cleanup()) }()

			u, err := s.CreateUser(context.Background(), tc.username, tc.email, tc.password, tc.admin)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, u.ID)
			assert.Equal(t, tc.admin, u.IsAdmin())

			var count int
			err = db.QueryRow("SELECT COUNT(*) FROM user_permissions WHERE user_id = $1", u.ID).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, tc.admin, count == 1)
		})
	}

	t.Run("duplicates", func(t *testing.T) {
		defer func() { assert.NoError(t, cleanup()) }()

		_, err := s.CreateUser(context.Background(), "admin", "admin@example.com", testPassword, true)
		require.NoError(t, err)

		_, err = s.CreateUser(context.Background(), "admin", "other@example.com", testPassword, true)
		assert.ErrorIs(t, err, ErrDuplicateUsername)

		_, err = s.CreateUser(context.Background(), "other", "ADMIN@example.com", testPassword, true)
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

func TestSession(t *testing.T) {
	s, _, cleanup := setupTestEnvironment(t)
	defer func() { assert.NoError(t, cleanup()) }()

	ctx := context.Background()

	created, err := s.CreateUser(ctx, "admin", "admin@example.com", testPassword, true)
	require.NoError(t, err)

	_, err = s.LoginUser(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailure)

	_, err = s.LoginUser(ctx, "nobody", testPassword)
	assert.ErrorIs(t, err, ErrAuthenticationFailure)

	token, err := s.LoginUser(ctx, "admin@example.com", testPassword)
	require.NoError(t, err)
	assert.True(t, token.AccessTokenExpiry.After(time.Now()))

	user, err := s.GetUserByAccessToken(ctx, token.AccessTokenPlain)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.True(t, user.IsAdmin())

	// Served from the cache the second time.
	_, ok := s.c.Get(common.CacheKeyUserByAccessToken(hashToken(token.AccessTokenPlain)))
	assert.True(t, ok)

	require.NoError(t, s.LogoutUser(ctx, user))

	_, err = s.GetUserByAccessToken(ctx, token.AccessTokenPlain)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.LogoutUser(ctx, &AnonymousUser), common.ErrAuthRequired)
}
