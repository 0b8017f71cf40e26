package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	ulid "github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrAuthFailed    = errors.New("authentication failed")
)

// UserInfo is the non-secret part of an account, returned on login.
type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type Service struct {
	store  AccountStore
	secret []byte
}

func NewService(db *sql.DB, secret []byte) *Service {
	return &Service{store: NewStore(db), secret: secret}
}

// NewServiceWithStore is used by tests to inject a fake store.
func NewServiceWithStore(store AccountStore, secret []byte) *Service {
	return &Service{store: store, secret: secret}
}

func (s *Service) Login(ctx context.Context, email, password string) (string, *UserInfo, error) {
	acct, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if acct == nil || acct.PasswordHash == "" {
		return "", nil, ErrAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  acct.ID,
		"role": acct.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, &UserInfo{ID: acct.ID, Email: acct.Email, Name: acct.Name, Role: acct.Role}, nil
}

func (s *Service) Register(ctx context.Context, email, name, role, password string) (*UserInfo, error) {
	exists, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists != nil {
		return nil, ErrAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return nil, err
	}

	a := &Account{
		ID:           id.String(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	return &UserInfo{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role}, nil
}

// ResetPassword replaces an account's credential. Admin-only; the old
// password is not required.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	acct, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acct == nil {
		return ErrAuthFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	n, err := s.store.SetPasswordHash(ctx, acct.ID, string(hash))
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrAuthFailed
	}
	return nil
}
