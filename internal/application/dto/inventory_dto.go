package dto

import "time"

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para AJUSTE, quantity es la existencia objetivo (>= 0), no un delta.
type RegisterMovementRequest struct {
	ProductID    string `json:"producto_id" validate:"required,uuid4"`
	LocationKind string `json:"ubicacion_tipo" validate:"required,oneof=ALMACEN VENDEDOR"`
	LocationID   string `json:"ubicacion_id" validate:"required"`
	Type         string `json:"tipo" validate:"required,oneof=ENTRADA SALIDA MERMA AJUSTE"`
	Quantity     int64  `json:"cantidad"`
}

// TransferRequest body para POST /api/inventory/transfers.
// RequestID opcional lo genera el cliente para que el reintento sea seguro.
type TransferRequest struct {
	ProductID string `json:"producto_id" validate:"required,uuid4"`
	SellerID  string `json:"vendedor_id" validate:"required,uuid4"`
	Direction string `json:"direccion" validate:"required,oneof=ASIGNAR DEVOLVER"`
	Quantity  int64  `json:"cantidad" validate:"required,gt=0"`
	RequestID string `json:"request_id" validate:"omitempty,uuid4"`
}

// BalanceItemDTO existencia de un producto para los resúmenes.
type BalanceItemDTO struct {
	ProductID   string `json:"producto_id"`
	ProductName string `json:"producto_nombre"`
	Unit        string `json:"unidad"`
	Active      bool   `json:"activo"`
	Quantity    int64  `json:"cantidad"`
}

// SellerHoldingDTO existencia en poder de un vendedor.
type SellerHoldingDTO struct {
	SellerID  string `json:"vendedor_id"`
	ProductID string `json:"producto_id"`
	Quantity  int64  `json:"cantidad"`
}

// MovementDTO fila de la bitácora de movimientos.
type MovementDTO struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"producto_id"`
	Type          string    `json:"tipo"`
	Quantity      int64     `json:"cantidad"`
	ReferenceKind *string   `json:"referencia_tipo,omitempty"`
	ReferenceID   *string   `json:"referencia_id,omitempty"`
	Date          time.Time `json:"fecha"`
}
