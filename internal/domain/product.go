package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Product
var (
	ErrEmptyProductID     = errors.New("product ID cannot be empty")
	ErrEmptyProductUserID = errors.New("product user ID cannot be empty")
	ErrEmptyProductName   = errors.New("product name cannot be empty")
	ErrNegativeProductPrice = errors.New("product price cannot be negative")
)

// Product represents an item in the user's catalog that generated
// marketing content is attached to. PriceCents avoids floating point
// currency handling.
type Product struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProduct creates a new Product with the given attributes.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewProduct(userID uuid.UUID, name, description, category string, priceCents int64, imageURL string) (*Product, error) {
	product := &Product{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Category:    category,
		PriceCents:  priceCents,
		ImageURL:    imageURL,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate checks if the Product has valid data.
// Returns an error if any field fails validation.
func (p *Product) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProductID
	}

	if p.UserID == uuid.Nil {
		return ErrEmptyProductUserID
	}

	if p.Name == "" {
		return ErrEmptyProductName
	}

	if p.PriceCents < 0 {
		return ErrNegativeProductPrice
	}

	return nil
}
