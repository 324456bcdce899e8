package userservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"time"
)

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newToken(userID int, ttl time.Duration) (*AuthToken, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}

	token := &AuthToken{
		AccessTokenPlain:  base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes),
		UserID:            userID,
		AccessTokenExpiry: time.Now().Add(ttl).Truncate(time.Second),
	}

	token.AccessTokenHash = hashToken(token.AccessTokenPlain)

	return token, nil
}

func (m *DBModel) createAuthToken(ctx context.Context, userID int) (*AuthToken, error) {
	token, err := newToken(userID, AccessTokenTime)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO auth_tokens (access_token, user_id, access_token_expiry)
		VALUES ($1, $2, $3)`

	_, err = m.db.ExecContext(ctx, query, token.AccessTokenHash, token.UserID, token.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	return token, nil
}

// getUserByToken returns the owner of an unexpired access token with its permissions, and the token expiry.
func (m *DBModel) getUserByToken(ctx context.Context, token []byte) (*User, time.Time, error) {
	var (
		u      User
		expiry time.Time
	)

	query := `
		SELECT u.id, u.username, u.email, u.created_at, u.version, t.access_token_expiry, p.permission
		FROM users u
		INNER JOIN auth_tokens t ON u.id = t.user_id
		LEFT JOIN user_permissions p ON u.id = p.user_id
		WHERE t.access_token = $1 AND t.access_token_expiry > $2`

	rows, err := m.db.QueryContext(ctx, query, token, time.Now())
	if err != nil {
		return nil, expiry, err
	}
	defer rows.Close()

	for rows.Next() {
		var p sql.NullString
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.Version, &expiry, &p)
		if err != nil {
			return nil, expiry, err
		}

		if p.Valid {
			u.Permissions = append(u.Permissions, Permission(p.String))
		}
	}

	if err = rows.Err(); err != nil {
		return nil, expiry, err
	}

	if u.ID == 0 {
		return nil, expiry, ErrNotFound
	}

	return &u, expiry, nil
}

func (m *DBModel) deleteAuthTokens(ctx context.Context, userID int) (int64, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
