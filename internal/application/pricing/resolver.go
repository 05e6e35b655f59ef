package pricing

import (
	"context"
	"time"

	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

// Resolver resuelve el precio vigente de un producto a partir del historial
// append-only de precios_productos. El precio vigente es el de vigente_desde
// más reciente que no sea posterior a "ahora": los precios con fecha futura
// quedan programados pero todavía no aplican.
type Resolver struct {
	priceRepo repository.PriceRepository

	// now es inyectable en pruebas.
	now func() time.Time
}

// NewResolver construye el resolver.
func NewResolver(priceRepo repository.PriceRepository) *Resolver {
	return &Resolver{priceRepo: priceRepo, now: time.Now}
}

// CurrentPrice devuelve el precio vigente de un producto.
// Retorna ErrNotFound si el producto no tiene precio vigente.
func (r *Resolver) CurrentPrice(ctx context.Context, companyID, productID string) (*entity.ProductPrice, error) {
	prices, err := r.priceRepo.CurrentPrices(ctx, companyID, []string{productID}, r.now())
	if err != nil {
		return nil, err
	}
	price, ok := prices[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return price, nil
}

// CurrentPrices resuelve en lote los precios vigentes de varios productos.
// Los productos sin precio vigente no aparecen en el mapa; el caller decide
// si esa ausencia es un error (un pedido no puede incluirlos).
func (r *Resolver) CurrentPrices(ctx context.Context, companyID string, productIDs []string) (map[string]*entity.ProductPrice, error) {
	if len(productIDs) == 0 {
		return map[string]*entity.ProductPrice{}, nil
	}
	return r.priceRepo.CurrentPrices(ctx, companyID, productIDs, r.now())
}
