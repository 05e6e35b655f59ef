package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la empresa.
// Nunca se elimina físicamente: se desactiva (Active=false) para preservar el historial.
type Product struct {
	ID        string
	CompanyID string
	Name      string
	Unit      string // etiqueta de unidad: "pieza", "caja", "litro", etc.
	Active    bool
	CreatedAt time.Time
}

// ProductPrice es una entrada del historial de precios (append-only).
// El precio vigente es el de EffectiveFrom más reciente que no sea futuro.
type ProductPrice struct {
	ID            string
	CompanyID     string
	ProductID     string
	Price         decimal.Decimal // precio unitario, nunca negativo
	EffectiveFrom time.Time
	CreatedAt     time.Time
}
