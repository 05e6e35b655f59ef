package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estatus de un pedido. BORRADOR pasa a CONFIRMADO exactamente una vez;
// ENTREGADO y CANCELADO existen en el enum pero el motor no los transiciona.
const (
	OrderBorrador   = "BORRADOR"
	OrderConfirmado = "CONFIRMADO"
	OrderEntregado  = "ENTREGADO"
	OrderCancelado  = "CANCELADO"
)

// Order representa un pedido levantado por un vendedor para un cliente.
// Total es derivado: suma de los subtotales de sus líneas.
type Order struct {
	ID            string
	CompanyID     string
	ClientID      string
	PointOfSaleID string
	SellerID      string
	Total         decimal.Decimal
	Status        string
	Date          time.Time
}

// OrderItem es una línea del pedido. El precio unitario se congela con el
// precio vigente al crear el borrador; la línea es inmutable después.
type OrderItem struct {
	ID        string
	CompanyID string
	OrderID   string
	ProductID string
	Quantity  int64 // siempre > 0
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal // Quantity × UnitPrice redondeado a 2 decimales
}
