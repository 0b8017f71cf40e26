package auth

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	accounts map[string]*Account // keyed by email
}

func newFakeStore() *fakeStore { return &fakeStore{accounts: map[string]*Account{}} }

func (s *fakeStore) GetByEmail(ctx context.Context, email string) (*Account, error) {
	a, ok := s.accounts[email]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s *fakeStore) Create(ctx context.Context, a *Account) error {
	cp := *a
	s.accounts[a.Email] = &cp
	return nil
}

func (s *fakeStore) SetPasswordHash(ctx context.Context, id, hash string) (int64, error) {
	for _, a := range s.accounts {
		if a.ID == id {
			a.PasswordHash = hash
			return 1, nil
		}
	}
	return 0, nil
}

var testSecret = []byte("test-secret")

func seedAccount(t *testing.T, store *fakeStore, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	store.Create(context.Background(), &Account{
		ID:           "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Email:        email,
		Name:         "Budi",
		Role:         role,
		PasswordHash: string(hash),
	})
}

func TestLogin(t *testing.T) {
	t.Run("issues a token for valid credentials", func(t *testing.T) {
		store := newFakeStore()
		seedAccount(t, store, "budi@example.com", "rahasia", "staff")
		svc := NewServiceWithStore(store, testSecret)

		token, info, err := svc.Login(context.Background(), "budi@example.com", "rahasia")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if token == "" {
			t.Fatal("expected a token")
		}
		if info.Email != "budi@example.com" || info.Role != "staff" {
			t.Fatalf("unexpected user info: %+v", info)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		store := newFakeStore()
		seedAccount(t, store, "budi@example.com", "rahasia", "staff")
		svc := NewServiceWithStore(store, testSecret)

		if _, _, err := svc.Login(context.Background(), "budi@example.com", "salah"); err != ErrAuthFailed {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := NewServiceWithStore(newFakeStore(), testSecret)
		if _, _, err := svc.Login(context.Background(), "nobody@example.com", "x"); err != ErrAuthFailed {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
	})
}

func TestRegister(t *testing.T) {
	t.Run("creates an account that can log in", func(t *testing.T) {
		store := newFakeStore()
		svc := NewServiceWithStore(store, testSecret)

		info, err := svc.Register(context.Background(), "ani@example.com", "Ani", "staff", "rahasia")
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if info.ID == "" || info.Email != "ani@example.com" {
			t.Fatalf("unexpected user info: %+v", info)
		}

		if _, _, err := svc.Login(context.Background(), "ani@example.com", "rahasia"); err != nil {
			t.Fatalf("login after register: %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := newFakeStore()
		svc := NewServiceWithStore(store, testSecret)

		if _, err := svc.Register(context.Background(), "ani@example.com", "Ani", "staff", "rahasia"); err != nil {
			t.Fatalf("first register: %v", err)
		}
		if _, err := svc.Register(context.Background(), "ani@example.com", "Ani", "staff", "rahasia"); err != ErrAlreadyExists {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("new credential replaces the old one", func(t *testing.T) {
		store := newFakeStore()
		seedAccount(t, store, "budi@example.com", "rahasia", "staff")
		svc := NewServiceWithStore(store, testSecret)

		if err := svc.ResetPassword(context.Background(), "budi@example.com", "rahasia-baru"); err != nil {
			t.Fatalf("reset: %v", err)
		}
		if _, _, err := svc.Login(context.Background(), "budi@example.com", "rahasia"); err != ErrAuthFailed {
			t.Fatalf("old password still works: %v", err)
		}
		if _, _, err := svc.Login(context.Background(), "budi@example.com", "rahasia-baru"); err != nil {
			t.Fatalf("login with new password: %v", err)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		svc := NewServiceWithStore(newFakeStore(), testSecret)
		if err := svc.ResetPassword(context.Background(), "nobody@example.com", "x"); err != ErrAuthFailed {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
	})
}
