package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                   = errors.New("recurso no encontrado")
	ErrInvalidInput               = errors.New("entrada inválida")
	ErrForbidden                  = errors.New("acceso denegado")
	ErrInsufficientStock          = errors.New("inventario insuficiente")
	ErrInsufficientWarehouseStock = errors.New("inventario insuficiente en almacén")
	ErrInsufficientSellerStock    = errors.New("inventario insuficiente del vendedor")
	ErrInvalidQuantity            = errors.New("cantidad inválida")
	ErrInvalidTarget              = errors.New("existencia objetivo inválida")
	ErrEmptyOrder                 = errors.New("el pedido no tiene productos")
	ErrMissingPrice               = errors.New("hay productos sin precio vigente")
	ErrNotConfirmable             = errors.New("solo se pueden confirmar pedidos en borrador")
	ErrDuplicate                  = errors.New("el registro ya existe")
)
