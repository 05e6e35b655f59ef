package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `empresa_id, producto_id, ubicacion_tipo, ubicacion_id, cantidad, updated_at`

// Get obtiene la existencia actual; sin fila devuelve cantidad cero.
func (r *StockRepo) Get(ctx context.Context, companyID, productID, locationKind, locationID string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM inventarios
		WHERE empresa_id = $1 AND producto_id = $2 AND ubicacion_tipo = $3 AND ubicacion_id = $4`
	return r.scanOne(ctx, query, companyID, productID, locationKind, locationID)
}

// GetForUpdate obtiene la existencia y bloquea la fila (SELECT FOR UPDATE).
// Si la fila todavía no existe devuelve cantidad cero sin bloqueo; el Upsert
// posterior la crea dentro de la misma transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, companyID, productID, locationKind, locationID string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM inventarios
		WHERE empresa_id = $1 AND producto_id = $2 AND ubicacion_tipo = $3 AND ubicacion_id = $4
		FOR UPDATE`
	return r.scanOne(ctx, query, companyID, productID, locationKind, locationID)
}

func (r *StockRepo) scanOne(ctx context.Context, query, companyID, productID, locationKind, locationID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, companyID, productID, locationKind, locationID).Scan(
		&s.CompanyID, &s.ProductID, &s.LocationKind, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{
				CompanyID:    companyID,
				ProductID:    productID,
				LocationKind: locationKind,
				LocationID:   locationID,
				Quantity:     0,
			}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad (por empresa, producto y ubicación).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO inventarios (empresa_id, producto_id, ubicacion_tipo, ubicacion_id, cantidad, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (empresa_id, producto_id, ubicacion_tipo, ubicacion_id)
		DO UPDATE SET cantidad = EXCLUDED.cantidad, updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		stock.CompanyID, stock.ProductID, stock.LocationKind, stock.LocationID, stock.Quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByLocation lista las existencias de una ubicación.
func (r *StockRepo) ListByLocation(ctx context.Context, companyID, locationKind, locationID string) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM inventarios
		WHERE empresa_id = $1 AND ubicacion_tipo = $2 AND ubicacion_id = $3
		ORDER BY producto_id`
	return r.list(ctx, query, companyID, locationKind, locationID)
}

// ListSellerHoldings lista todas las existencias en poder de vendedores.
func (r *StockRepo) ListSellerHoldings(ctx context.Context, companyID string) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM inventarios
		WHERE empresa_id = $1 AND ubicacion_tipo = $2
		ORDER BY ubicacion_id, producto_id`
	return r.list(ctx, query, companyID, entity.LocationVendedor)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.CompanyID, &s.ProductID, &s.LocationKind, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
