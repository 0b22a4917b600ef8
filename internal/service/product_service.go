package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/store"
)

// ProductUpdate carries the mutable fields of a product. Nil pointers
// leave the corresponding field unchanged.
type ProductUpdate struct {
	Name        *string
	Description *string
	Category    *string
	PriceCents  *int64
	ImageURL    *string
}

// ProductService manages the user's product catalog.
type ProductService struct {
	productStore store.ProductStore
	logger       *slog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(productStore store.ProductStore, logger *slog.Logger) *ProductService {
	return &ProductService{
		productStore: productStore,
		logger:       logger.With("component", "product_service"),
	}
}

// CreateProduct adds a new product to the user's catalog.
func (s *ProductService) CreateProduct(
	ctx context.Context,
	userID uuid.UUID,
	name, description, category string,
	priceCents int64,
	imageURL string,
) (*domain.Product, error) {
	product, err := domain.NewProduct(userID, name, description, category, priceCents, imageURL)
	if err != nil {
		return nil, err
	}

	if err := s.productStore.Create(ctx, product); err != nil {
		return nil, newServiceError("create_product", "failed to store product", err)
	}

	s.logger.InfoContext(ctx, "product created",
		"product_id", product.ID,
		"user_id", userID)
	return product, nil
}

// GetProduct retrieves a product owned by the given user.
// Returns ErrProductNotFound when the product is missing or belongs to
// another user.
func (s *ProductService) GetProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.Product, error) {
	product, err := s.productStore.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, newServiceError("get_product", "failed to retrieve product", err)
	}

	if product.UserID != userID {
		return nil, ErrProductNotFound
	}

	return product, nil
}

// ListProducts retrieves the user's products, newest first.
func (s *ProductService) ListProducts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Product, error) {
	products, err := s.productStore.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, newServiceError("list_products", "failed to list products", err)
	}
	return products, nil
}

// UpdateProduct applies the given changes to a product owned by the user.
func (s *ProductService) UpdateProduct(
	ctx context.Context,
	userID, productID uuid.UUID,
	update ProductUpdate,
) (*domain.Product, error) {
	product, err := s.GetProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	if update.PriceCents != nil {
		product.PriceCents = *update.PriceCents
	}
	if update.ImageURL != nil {
		product.ImageURL = *update.ImageURL
	}
	product.UpdatedAt = time.Now().UTC()

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productStore.Update(ctx, product); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, newServiceError("update_product", "failed to update product", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		"product_id", product.ID,
		"user_id", userID)
	return product, nil
}

// DeleteProduct removes a product owned by the user.
func (s *ProductService) DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	// Ownership check before delete; the store delete is by ID only.
	if _, err := s.GetProduct(ctx, userID, productID); err != nil {
		return err
	}

	if err := s.productStore.Delete(ctx, productID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return newServiceError("delete_product", "failed to delete product", err)
	}

	s.logger.InfoContext(ctx, "product deleted",
		"product_id", productID,
		"user_id", userID)
	return nil
}
