package repository

import (
	"context"

	"github.com/routiva/routiva-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del historial de
// movimientos (append-only: solo Create y lecturas).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockMovement, error)
	ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
