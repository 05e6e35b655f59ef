package entity

import "time"

// Tipos de ubicación de inventario. El almacén usa el ID de la empresa como
// ubicación; cada vendedor lleva su propia existencia en ruta.
const (
	LocationAlmacen  = "ALMACEN"
	LocationVendedor = "VENDEDOR"
)

// Stock representa la existencia actual de un producto en una ubicación.
// La fila se crea con el primer movimiento hacia la ubicación y nunca se borra;
// la ausencia de fila significa cantidad cero.
type Stock struct {
	CompanyID    string
	ProductID    string
	LocationKind string // ALMACEN | VENDEDOR
	LocationID   string // empresa o vendedor según LocationKind
	Quantity     int64  // nunca negativa
	UpdatedAt    time.Time
}
