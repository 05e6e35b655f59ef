package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, empresa_id, cliente_id, punto_venta_id, vendedor_id, total, estatus, fecha`

// Create persiste un pedido.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO pedidos (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.CompanyID, order.ClientID, order.PointOfSaleID, order.SellerID,
		order.Total, order.Status, order.Date,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de pedido (inmutable después).
func (r *OrderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	query := `
		INSERT INTO pedido_items (id, empresa_id, pedido_id, producto_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.CompanyID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("create order item: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido; nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM pedidos WHERE empresa_id = $1 AND id = $2`
	return r.scanOne(ctx, query, companyID, id)
}

// GetForUpdate obtiene el pedido y bloquea la fila (SELECT FOR UPDATE), para
// que dos confirmaciones concurrentes del mismo pedido se serialicen.
func (r *OrderRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM pedidos WHERE empresa_id = $1 AND id = $2 FOR UPDATE`
	return r.scanOne(ctx, query, companyID, id)
}

func (r *OrderRepo) scanOne(ctx context.Context, query, companyID, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&o.ID, &o.CompanyID, &o.ClientID, &o.PointOfSaleID, &o.SellerID, &o.Total, &o.Status, &o.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// ListItems devuelve las líneas de un pedido.
func (r *OrderRepo) ListItems(ctx context.Context, companyID, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, empresa_id, pedido_id, producto_id, cantidad, precio_unitario, subtotal
		FROM pedido_items
		WHERE empresa_id = $1 AND pedido_id = $2`
	rows, err := r.q.Query(ctx, query, companyID, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.CompanyID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estatus del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE pedidos SET estatus = $3 WHERE empresa_id = $1 AND id = $2`,
		companyID, id, status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// ListByCompany lista pedidos recientes; sellerID vacío lista todos.
func (r *OrderRepo) ListByCompany(ctx context.Context, companyID, sellerID string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM pedidos WHERE empresa_id = $1`
	args := []any{companyID}
	pos := 2
	if sellerID != "" {
		query += fmt.Sprintf(" AND vendedor_id = $%d", pos)
		args = append(args, sellerID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY fecha DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.CompanyID, &o.ClientID, &o.PointOfSaleID, &o.SellerID, &o.Total, &o.Status, &o.Date); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}
