package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ulid "github.com/oklog/ulid/v2"

	"github.com/Dwiki2205/sistem-inventaris-kdju/internal/imaging"
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
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

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

// Repository is the item storage handle.
type Repository interface {
	Insert(ctx context.Context, it *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, search string, p Page) ([]Item, int64, error)
	Update(ctx context.Context, id string, req UpdateItemRequest) (*Item, error)
	Delete(ctx context.Context, id string) (bool, error)
	BorrowedCount(ctx context.Context, id string) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" ||
		strings.TrimSpace(req.Location) == "" {
		return ItemResponse{}, ErrInvalid("name, category, location are required")
	}
	if !req.Condition.Valid() {
		return ItemResponse{}, ErrInvalid("condition must be good, damaged or needs_repair")
	}
	if req.Stock < 0 {
		return ItemResponse{}, ErrInvalid("stock must be >= 0")
	}

	imageData, err := normalizeImage(req.ImageData)
	if err != nil {
		return ItemResponse{}, err
	}

	it := &Item{
		ID:          ulid.Make().String(),
		Name:        req.Name,
		Category:    req.Category,
		Stock:       req.Stock,
		Location:    req.Location,
		Condition:   req.Condition,
		Description: req.Description,
		ImageData:   imageData,
	}
	if err := s.repo.Insert(ctx, it); err != nil {
		return ItemResponse{}, err
	}

	out, err := s.repo.Get(ctx, it.ID)
	if err != nil {
		return ItemResponse{}, err
	}
	return toResponse(out), nil
}

func (s *Service) GetItem(ctx context.Context, id string) (ItemResponse, error) {
	it, err := s.repo.Get(ctx, id)
	if err != nil {
		return ItemResponse{}, err
	}
	return toResponse(it), nil
}

func (s *Service) ListItems(ctx context.Context, search string, p Page) ([]ItemResponse, int64, error) {
	list, total, err := s.repo.List(ctx, search, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ItemResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	return out, total, nil
}

// UpdateItem is the non-transactional admin path. Stock edits here are
// validated non-negative but sit outside the loan workflow's conservation
// guarantee.
func (s *Service) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error) {
	if req.Condition != nil && !req.Condition.Valid() {
		return ItemResponse{}, ErrInvalid("condition must be good, damaged or needs_repair")
	}
	if req.Stock != nil && *req.Stock < 0 {
		return ItemResponse{}, ErrInvalid("stock must be >= 0")
	}
	if req.ImageData != nil {
		normalized, err := normalizeImage(req.ImageData)
		if err != nil {
			return ItemResponse{}, err
		}
		req.ImageData = normalized
	}

	it, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return ItemResponse{}, err
	}
	return toResponse(it), nil
}

// DeleteItem refuses while borrowed loan records exist; cascading them away
// would silently break stock conservation.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	n, err := s.repo.BorrowedCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict(fmt.Sprintf("item has %d active loan(s); return or cancel them first", n))
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound("item not found")
	}
	return nil
}

func normalizeImage(data *string) (*string, error) {
	if data == nil || *data == "" {
		return nil, nil
	}
	out, err := imaging.NormalizeDataURL(*data)
	if err != nil {
		return nil, ErrInvalid("invalid image data: " + err.Error())
	}
	return &out, nil
}
