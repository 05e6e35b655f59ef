package repository

import (
	"context"

	"github.com/routiva/routiva-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar existencias por
// (producto, ubicación). Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve la existencia actual; si no hay fila devuelve cantidad cero
	// (la ausencia significa cero, no "no encontrado").
	Get(ctx context.Context, companyID, productID, locationKind, locationID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID, productID, locationKind, locationID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	ListByLocation(ctx context.Context, companyID, locationKind, locationID string) ([]*entity.Stock, error)
	// ListSellerHoldings devuelve todas las existencias en poder de vendedores.
	ListSellerHoldings(ctx context.Context, companyID string) ([]*entity.Stock, error)
}
