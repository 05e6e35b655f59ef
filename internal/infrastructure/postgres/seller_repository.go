package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

var _ repository.SellerRepository = (*SellerRepo)(nil)

// SellerRepo implementación de SellerRepository sobre PostgreSQL.
type SellerRepo struct {
	q Querier
}

// NewSellerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSellerRepository(q Querier) *SellerRepo {
	return &SellerRepo{q: q}
}

// Create persiste un vendedor.
func (r *SellerRepo) Create(ctx context.Context, seller *entity.Seller) error {
	query := `
		INSERT INTO vendedores (id, empresa_id, nombre_completo, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		seller.ID, seller.CompanyID, seller.FullName, seller.Status, seller.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create seller: %w", err)
	}
	return nil
}

// GetByID obtiene un vendedor; nil si no existe.
func (r *SellerRepo) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	query := `SELECT id, empresa_id, nombre_completo, status, created_at FROM vendedores WHERE id = $1`
	var s entity.Seller
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.CompanyID, &s.FullName, &s.Status, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return &s, nil
}

// ListByCompany lista los vendedores de la empresa por nombre.
func (r *SellerRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Seller, error) {
	query := `
		SELECT id, empresa_id, nombre_completo, status, created_at
		FROM vendedores
		WHERE empresa_id = $1
		ORDER BY nombre_completo`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Seller
	for rows.Next() {
		var s entity.Seller
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.FullName, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan seller: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estatus del vendedor.
func (r *SellerRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE vendedores SET status = $3 WHERE empresa_id = $1 AND id = $2`,
		companyID, id, status,
	)
	if err != nil {
		return fmt.Errorf("update seller status: %w", err)
	}
	return nil
}
