package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La bitácora es append-only: no hay Update ni Delete.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, empresa_id, producto_id, tipo, cantidad, referencia_tipo, referencia_id, fecha, created_by`

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos_inventario (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.CompanyID, movement.ProductID, movement.Type, movement.Quantity,
		movement.ReferenceKind, movement.ReferenceID, movement.Date, movement.CreatedBy,
	)
	if err != nil {
		// El ID puede venir del cliente (request_id); un choque de PK significa
		// que ese request ya se aplicó.
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Sin fila devuelve nil (lo usa la
// verificación de idempotencia de transferencias).
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM movimientos_inventario WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.CompanyID, &m.ProductID, &m.Type, &m.Quantity,
		&m.ReferenceKind, &m.ReferenceID, &m.Date, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// ListByCompany lista la bitácora de la empresa, reciente primero.
func (r *MovementRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movimientos_inventario
		WHERE empresa_id = $1
		ORDER BY fecha DESC
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, companyID, limit, offset)
}

// ListByProduct lista la bitácora de un producto, reciente primero.
func (r *MovementRepo) ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movimientos_inventario
		WHERE empresa_id = $1 AND producto_id = $2
		ORDER BY fecha DESC
		LIMIT $3 OFFSET $4`
	return r.list(ctx, query, companyID, productID, limit, offset)
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.ProductID, &m.Type, &m.Quantity,
			&m.ReferenceKind, &m.ReferenceID, &m.Date, &m.CreatedBy,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
