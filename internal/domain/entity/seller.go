package entity

import "time"

// Estatus de un vendedor.
const (
	SellerActivo   = "ACTIVO"
	SellerInactivo = "INACTIVO"
)

// Seller representa un vendedor de ruta de la empresa.
type Seller struct {
	ID        string
	CompanyID string
	FullName  string
	Status    string
	CreatedAt time.Time
}
