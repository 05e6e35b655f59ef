package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

var _ repository.PriceRepository = (*PriceRepo)(nil)

// PriceRepo implementación del historial de precios sobre PostgreSQL.
type PriceRepo struct {
	q Querier
}

// NewPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceRepository(q Querier) *PriceRepo {
	return &PriceRepo{q: q}
}

// Create agrega una entrada al historial (append-only).
func (r *PriceRepo) Create(ctx context.Context, price *entity.ProductPrice) error {
	query := `
		INSERT INTO precios_productos (id, empresa_id, producto_id, precio, vigente_desde, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		price.ID, price.CompanyID, price.ProductID, price.Price, price.EffectiveFrom, price.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create price: %w", err)
	}
	return nil
}

// CurrentPrices devuelve por producto la entrada vigente a la fecha asOf:
// la de vigente_desde más reciente que no sea posterior a asOf. Los precios
// con fecha futura se excluyen; empates por vigente_desde se resuelven por
// orden de inserción (created_at más antiguo).
func (r *PriceRepo) CurrentPrices(ctx context.Context, companyID string, productIDs []string, asOf time.Time) (map[string]*entity.ProductPrice, error) {
	query := `
		SELECT DISTINCT ON (producto_id)
			id, empresa_id, producto_id, precio, vigente_desde, created_at
		FROM precios_productos
		WHERE empresa_id = $1 AND producto_id = ANY($2) AND vigente_desde <= $3
		ORDER BY producto_id, vigente_desde DESC, created_at ASC`
	rows, err := r.q.Query(ctx, query, companyID, productIDs, asOf)
	if err != nil {
		return nil, fmt.Errorf("current prices: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*entity.ProductPrice)
	for rows.Next() {
		var p entity.ProductPrice
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.ProductID, &p.Price, &p.EffectiveFrom, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		out[p.ProductID] = &p
	}
	return out, rows.Err()
}

// ListByProduct lista el historial de un producto, reciente primero.
func (r *PriceRepo) ListByProduct(ctx context.Context, companyID, productID string, limit int) ([]*entity.ProductPrice, error) {
	query := `
		SELECT id, empresa_id, producto_id, precio, vigente_desde, created_at
		FROM precios_productos
		WHERE empresa_id = $1 AND producto_id = $2
		ORDER BY vigente_desde DESC, created_at DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, companyID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	var out []*entity.ProductPrice
	for rows.Next() {
		var p entity.ProductPrice
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.ProductID, &p.Price, &p.EffectiveFrom, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
