package auth

import (
	"context"

	"github.com/frahmantamala/callcenter-admin/internal/rbac"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// User is the authenticated principal carried through the request context.
type User struct {
	ID       int64     `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     rbac.Role `json:"role"`
	Active   bool      `json:"active"`
}

// Identity converts the principal into the shape the access-control engine
// consumes.
func (u *User) Identity() rbac.Identity {
	return rbac.Identity{
		UserID: u.ID,
		Role:   u.Role,
		Active: u.Active,
	}
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(ctx context.Context, userID int64) (*User, error)
	Logout(ctx context.Context, user *User)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	GetUserByID(ctx context.Context, userID int64) (*User, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID int64) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

// AuditRecorder records authentication events. Implementations must never
// fail the caller: a broken audit store cannot be allowed to block logins.
type AuditRecorder interface {
	RecordAuthEvent(ctx context.Context, actorID int64, action string, metadata map[string]interface{})
}

// Credentials is the minimal row needed to verify a login attempt.
type Credentials struct {
	UserID       int64
	Email        string
	PasswordHash string
	Active       bool
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
