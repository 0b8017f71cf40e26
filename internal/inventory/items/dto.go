package items

import "time"

// ===== Requests =====

type CreateItemRequest struct {
	Name        string    `json:"name" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	Stock       int       `json:"stock"`
	Location    string    `json:"location" binding:"required"`
	Condition   Condition `json:"condition" binding:"required"`
	Description string    `json:"description"`
	ImageData   *string   `json:"image_data,omitempty"`
}

type UpdateItemRequest struct {
	Name        *string    `json:"name,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Stock       *int       `json:"stock,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Condition   *Condition `json:"condition,omitempty"`
	Description *string    `json:"description,omitempty"`
	ImageData   *string    `json:"image_data,omitempty"`
}

// ===== Responses =====

type ItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Location    string    `json:"location"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	ImageData   *string   `json:"image_data,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(it *Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Category:    it.Category,
		Stock:       it.Stock,
		Location:    it.Location,
		Condition:   it.Condition,
		Description: it.Description,
		ImageData:   it.ImageData,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}
