package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementEntrada = "ENTRADA" // entrada al almacén
	MovementSalida  = "SALIDA"  // salida manual
	MovementVenta   = "VENTA"   // salida por pedido confirmado
	MovementMerma   = "MERMA"   // pérdida o deterioro
	MovementAjuste  = "AJUSTE"  // corrección a una existencia objetivo
)

// Tipos de referencia de un movimiento.
const (
	ReferencePedido     = "PEDIDO"
	ReferenceAjuste     = "AJUSTE"
	ReferenceDevolucion = "DEVOLUCION"
)

// StockMovement es el registro de auditoría de cada cambio de existencia.
// Append-only: una fila por evento, nunca se modifica. Quantity guarda siempre
// la magnitud (positiva); el signo lo da el tipo.
type StockMovement struct {
	ID            string
	CompanyID     string
	ProductID     string
	Type          string // ENTRADA | SALIDA | VENTA | MERMA | AJUSTE
	Quantity      int64
	ReferenceKind *string // PEDIDO | AJUSTE | DEVOLUCION | nil
	ReferenceID   *string // pedido o vendedor según ReferenceKind
	Date          time.Time
	CreatedBy     string // actor que originó el movimiento
}
