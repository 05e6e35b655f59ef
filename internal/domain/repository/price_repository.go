package repository

import (
	"context"
	"time"

	"github.com/routiva/routiva-api/internal/domain/entity"
)

// PriceRepository define el puerto del historial de precios (append-only).
type PriceRepository interface {
	Create(ctx context.Context, price *entity.ProductPrice) error
	// CurrentPrices devuelve, por producto, la entrada con vigente_desde más
	// reciente que no sea posterior a asOf. Los productos sin precio vigente
	// simplemente no aparecen en el mapa. Empates por vigente_desde se resuelven
	// por orden de inserción (primera fila registrada).
	CurrentPrices(ctx context.Context, companyID string, productIDs []string, asOf time.Time) (map[string]*entity.ProductPrice, error)
	ListByProduct(ctx context.Context, companyID, productID string, limit int) ([]*entity.ProductPrice, error)
}
