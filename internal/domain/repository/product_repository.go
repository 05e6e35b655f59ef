package repository

import (
	"context"

	"github.com/routiva/routiva-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Product, error)
	// SetActive activa o desactiva el producto. Nunca se borra físicamente.
	SetActive(ctx context.Context, id string, active bool) error
}
