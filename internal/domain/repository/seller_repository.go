package repository

import (
	"context"

	"github.com/routiva/routiva-api/internal/domain/entity"
)

// SellerRepository define el puerto de persistencia para vendedores.
type SellerRepository interface {
	Create(ctx context.Context, seller *entity.Seller) error
	GetByID(ctx context.Context, id string) (*entity.Seller, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Seller, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) error
}
