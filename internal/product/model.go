package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade categories are a closed set; validation rejects anything else.
var Categories = []string{
	"fruits", "vegetables", "grains", "dairy", "meat", "seafood",
	"spices", "coffee", "cacao", "textile", "handicrafts", "others",
}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string `json:"id"`
	FarmerID    string `json:"farmer_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Price is NUMERIC in Postgres and a string on the wire to avoid
	// rounding errors.
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	Images    []string        `json:"images"`
	Stock     int             `json:"stock"`
	Unit      string          `json:"unit"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ListResponse is the paginated catalog page.
// swagger:model ProductListResponse
type ListResponse struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
	Total    int       `json:"total"`
}

// CreateRequest payload for POST /api/products.
// swagger:model CreateProductRequest
type CreateRequest struct {
	Title       string   `json:"title" binding:"required,max=100" example:"Arabica beans"`
	Description string   `json:"description" binding:"required,max=500" example:"Single-origin, sun dried"`
	Price       string   `json:"price" binding:"required" example:"120.50"`
	Category    string   `json:"category" binding:"required" example:"coffee"`
	Images      []string `json:"images"`
	Stock       *int     `json:"stock" binding:"required"`
	Unit        string   `json:"unit" binding:"required,max=20" example:"kg"`
}

// UpdateRequest payload for PUT /api/products/:id; all fields optional.
// swagger:model UpdateProductRequest
type UpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *string  `json:"price"`
	Category    *string  `json:"category"`
	Images      []string `json:"images"`
	Stock       *int     `json:"stock"`
	Unit        *string  `json:"unit"`
}
