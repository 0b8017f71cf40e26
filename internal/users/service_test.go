package users

import (
	"context"
	"testing"
)

type fakeRepo struct {
	users map[string]*User
}

func newFakeRepo() *fakeRepo { return &fakeRepo{users: map[string]*User{}} }

func (r *fakeRepo) Insert(ctx context.Context, u *User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrConflict("email already exists")
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound("user not found")
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func apiCode(t *testing.T, err error) Code {
	t.Helper()
	api, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	return api.Code
}

func TestCreateUser(t *testing.T) {
	t.Run("ok and email is normalized", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		res, err := svc.CreateUser(context.Background(), CreateUserRequest{
			Email: " Budi@Example.COM ",
			Name:  "Budi",
			Role:  RoleStaff,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if res.Email != "budi@example.com" {
			t.Fatalf("email not normalized: %q", res.Email)
		}
		if res.Role != RoleStaff || res.ID == "" {
			t.Fatalf("unexpected response: %+v", res)
		}
	})

	t.Run("validation", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		cases := []struct {
			name string
			req  CreateUserRequest
		}{
			{"missing email", CreateUserRequest{Name: "Budi", Role: RoleStaff}},
			{"email without at sign", CreateUserRequest{Email: "budi", Name: "Budi", Role: RoleStaff}},
			{"blank name", CreateUserRequest{Email: "budi@example.com", Name: " ", Role: RoleStaff}},
			{"unknown role", CreateUserRequest{Email: "budi@example.com", Name: "Budi", Role: "manager"}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.CreateUser(context.Background(), tc.req)
				if apiCode(t, err) != CodeInvalidArgument {
					t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
				}
			})
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc := NewService(newFakeRepo())
		req := CreateUserRequest{Email: "budi@example.com", Name: "Budi", Role: RoleStaff}
		if _, err := svc.CreateUser(context.Background(), req); err != nil {
			t.Fatalf("first create: %v", err)
		}
		req.Email = "BUDI@example.com" // same address after normalization
		_, err := svc.CreateUser(context.Background(), req)
		if apiCode(t, err) != CodeConflict {
			t.Fatalf("expected CONFLICT, got %v", err)
		}
	})
}

func TestUpdateUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	created, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Email: "budi@example.com", Name: "Budi", Role: RoleStaff,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Run("role change", func(t *testing.T) {
		role := RoleAdmin
		res, err := svc.UpdateUser(context.Background(), created.ID, UpdateUserRequest{Role: &role})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if res.Role != RoleAdmin {
			t.Fatalf("role not updated: %s", res.Role)
		}
	})

	t.Run("bad email rejected", func(t *testing.T) {
		email := "not-an-email"
		_, err := svc.UpdateUser(context.Background(), created.ID, UpdateUserRequest{Email: &email})
		if apiCode(t, err) != CodeInvalidArgument {
			t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
		}
	})

	t.Run("bad role rejected", func(t *testing.T) {
		role := Role("manager")
		_, err := svc.UpdateUser(context.Background(), created.ID, UpdateUserRequest{Role: &role})
		if apiCode(t, err) != CodeInvalidArgument {
			t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "X"
		_, err := svc.UpdateUser(context.Background(), "missing", UpdateUserRequest{Name: &name})
		if apiCode(t, err) != CodeNotFound {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	})
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	created, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Email: "budi@example.com", Name: "Budi", Role: RoleStaff,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.DeleteUser(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), created.ID); apiCode(t, err) != CodeNotFound {
		t.Fatalf("expected NOT_FOUND on second delete, got %v", err)
	}
}
