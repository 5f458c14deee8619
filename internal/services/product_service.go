package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tech-jay13/PMS/internal/models"
	"github.com/tech-jay13/PMS/internal/repositories"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// EventPublisher publishes product change events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. A nil events publisher
// disables event publishing.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// ProductPage is the result of a paginated product listing. Total counts the
// full filtered set, independent of the page window.
type ProductPage struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
	Products []models.Product `json:"products"`
}

// CreateProduct stamps the timestamps and stores a new product. Duplicate IDs
// surface as repositories.ErrProductExists.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvent("product.created", product.ID)
	return product, nil
}

// UpdateProduct merges the supplied fields into an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	product, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.publishEvent("product.updated", id)
	return product, nil
}

// DeleteProduct removes a product permanently.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent("product.deleted", id)
	return nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProducts normalizes the page window and returns one page of matching
// products. Page is clamped to at least 1 and limit to [1, 100], with a
// default limit of 10.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter, page, limit int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := int64(page-1) * int64(limit)

	products, total, err := s.repo.List(ctx, filter, offset, int64(limit))
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Total:    total,
		Page:     page,
		Limit:    limit,
		Products: products,
	}, nil
}

// publishEvent sends a product change event. Publish failures are logged and
// never propagated to the API caller.
func (s *ProductService) publishEvent(routingKey, productID string) {
	if s.events == nil {
		return
	}

	body, err := json.Marshal(map[string]interface{}{
		"eventId":    uuid.New().String(),
		"productId":  productID,
		"occurredAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for product %s: %v", routingKey, productID, err)
		return
	}

	if err := s.events.Publish("product", routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", routingKey, productID, err)
	}
}
