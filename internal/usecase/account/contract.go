package account

import (
	"context"

	"github.com/kailas-cloud/gigmarket/internal/domain/user"
)

// UserStore persists accounts.
type UserStore interface {
	Get(ctx context.Context, id uint) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
	UpdateProfile(ctx context.Context, id uint, p user.Profile) (user.User, error)
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
}

// PasswordHasher hashes and compares passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID uint, email string) (string, error)
}
