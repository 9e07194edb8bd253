package product

import "time"

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// We store price as a string to avoid rounding errors (NUMERIC in Postgres)
	Price        string    `json:"price"`
	Stock        int       `json:"stock"`
	CategoryID   string    `json:"category_id,omitempty"`
	CategoryName string    `json:"category_name,omitempty"`
	SubCategory  string    `json:"sub_category,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Message string `json:"message"`
}

// ListResponse represents one page of the catalog.
// swagger:model
type ListResponse struct {
	Products      []Product `json:"products"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int       `json:"totalPages"`
	TotalProducts int       `json:"totalProducts"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string `json:"name"         example:"Mechanical Keyboard"`
	Description string `json:"description"  example:"RGB 60%"`
	Price       string `json:"price"        example:"199.90"`
	Stock       int    `json:"stock"        example:"10"`
	CategoryID  string `json:"category_id"  example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	SubCategory string `json:"sub_category" example:"Accessories"`
	ImageURL    string `json:"image_url"`
}

// UpdateProductRequest payload of partial update.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       *int   `json:"stock"`
	CategoryID  string `json:"category_id"`
	SubCategory string `json:"sub_category"`
	ImageURL    string `json:"image_url"`
}
