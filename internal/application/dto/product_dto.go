package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name string `json:"nombre" validate:"required,min=1,max=120"`
	Unit string `json:"unidad" validate:"required,min=1,max=40"`
}

// ProductDTO respuesta de producto.
type ProductDTO struct {
	ID     string `json:"id"`
	Name   string `json:"nombre"`
	Unit   string `json:"unidad"`
	Active bool   `json:"activo"`
}

// AddPriceRequest body para POST /api/products/:id/prices.
// effectiveFrom omitido = vigente desde ahora; una fecha futura programa el precio.
type AddPriceRequest struct {
	Price         decimal.Decimal `json:"precio" validate:"required"`
	EffectiveFrom *time.Time      `json:"vigente_desde,omitempty"`
}

// PriceDTO entrada del historial de precios.
type PriceDTO struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"producto_id"`
	Price         decimal.Decimal `json:"precio"`
	EffectiveFrom time.Time       `json:"vigente_desde"`
}

// CreateSellerRequest body para POST /api/sellers.
type CreateSellerRequest struct {
	FullName string `json:"nombre_completo" validate:"required,min=1,max=120"`
}

// SellerDTO respuesta de vendedor.
type SellerDTO struct {
	ID       string `json:"id"`
	FullName string `json:"nombre_completo"`
	Status   string `json:"status"`
}
