package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/toolshelf/internal/common"
)

type Permission string
type Permissions []Permission

const (
	AccessTokenTime time.Duration = 7 * 24 * time.Hour

	// PermissionCatalogAdmin allows creating, editing and deleting tools and posts.
	PermissionCatalogAdmin Permission = "catalog:admin"
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m *DBModel
	c *common.Cache
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	Version   int       `json:"version"`

	Permissions Permissions `json:"permissions"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// AuthToken is an issued access token. Only its hash is stored.
type AuthToken struct {
	AccessTokenPlain  string    `json:"access_token"`
	AccessTokenHash   []byte    `json:"-"`
	UserID            int       `json:"-"`
	AccessTokenExpiry time.Time `json:"access_token_expiry"`
}
