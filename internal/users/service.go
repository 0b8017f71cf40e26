package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ulid "github.com/oklog/ulid/v2"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

type Repository interface {
	Insert(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return UserResponse{}, ErrInvalid("a valid email is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return UserResponse{}, ErrInvalid("name is required")
	}
	if !req.Role.Valid() {
		return UserResponse{}, ErrInvalid("role must be admin or staff")
	}

	u := &User{
		ID:    ulid.Make().String(),
		Email: email,
		Name:  req.Name,
		Role:  req.Role,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		return UserResponse{}, err
	}

	out, err := s.repo.Get(ctx, u.ID)
	if err != nil {
		return UserResponse{}, err
	}
	return toResponse(out), nil
}

func (s *Service) ListUsers(ctx context.Context) ([]UserResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	return out, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	if req.Role != nil && !req.Role.Valid() {
		return UserResponse{}, ErrInvalid("role must be admin or staff")
	}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			return UserResponse{}, ErrInvalid("a valid email is required")
		}
		req.Email = &email
	}

	u, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return UserResponse{}, err
	}
	return toResponse(u), nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound("user not found")
	}
	return nil
}
