package repository

import (
	"context"

	"github.com/routiva/routiva-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Order, error)
	// GetForUpdate bloquea el pedido (SELECT FOR UPDATE) para serializar confirmaciones.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Order, error)
	ListItems(ctx context.Context, companyID, orderID string) ([]*entity.OrderItem, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) error
	// ListByCompany lista pedidos recientes; sellerID vacío lista todos.
	ListByCompany(ctx context.Context, companyID, sellerID string, limit, offset int) ([]*entity.Order, error)
}
