package category

import "time"

type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SubCategories []string  `json:"subCategories"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpsertCategoryRequest payload for create/update.
// swagger:model UpsertCategoryRequest
type UpsertCategoryRequest struct {
	Name          string   `json:"name"          example:"Clothing"`
	SubCategories []string `json:"subCategories" example:"Men,Women"`
}
