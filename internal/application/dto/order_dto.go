package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea solicitada en un pedido.
type OrderLineRequest struct {
	ProductID string `json:"producto_id" validate:"required,uuid4"`
	Quantity  int64  `json:"cantidad" validate:"required,gt=0"`
}

// CreateDraftRequest body para POST /api/orders.
type CreateDraftRequest struct {
	ClientID      string             `json:"cliente_id" validate:"required,uuid4"`
	PointOfSaleID string             `json:"punto_venta_id" validate:"required,uuid4"`
	SellerID      string             `json:"vendedor_id" validate:"required,uuid4"`
	Lines         []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// StopOrderRequest body para POST /api/orders/stop (venta en parada, app de
// vendedor). El vendedor sale del token; el pedido nace CONFIRMADO.
type StopOrderRequest struct {
	ClientID      string             `json:"cliente_id" validate:"required,uuid4"`
	PointOfSaleID string             `json:"punto_venta_id" validate:"required,uuid4"`
	Lines         []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderDTO resumen de un pedido.
type OrderDTO struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"cliente_id"`
	PointOfSaleID string          `json:"punto_venta_id"`
	SellerID      string          `json:"vendedor_id"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"estatus"`
	Date          time.Time       `json:"fecha"`
}

// OrderItemDTO línea de un pedido.
type OrderItemDTO struct {
	ID        string          `json:"id"`
	ProductID string          `json:"producto_id"`
	Quantity  int64           `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
