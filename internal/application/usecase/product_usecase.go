package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase operaciones de catálogo: productos y su historial de precios.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	priceRepo   repository.PriceRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, priceRepo repository.PriceRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, priceRepo: priceRepo}
}

// Create registra un producto nuevo, activo por defecto.
func (uc *ProductUseCase) Create(ctx context.Context, companyID, name, unit string) (*entity.Product, error) {
	if companyID == "" || name == "" || unit == "" {
		return nil, domain.ErrInvalidInput
	}
	product := &entity.Product{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		Unit:      unit,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// List devuelve los productos de la empresa.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, onlyActive bool) ([]*entity.Product, error) {
	return uc.productRepo.ListByCompany(ctx, companyID, onlyActive)
}

// Deactivate desactiva el producto. No se borra: los movimientos y pedidos
// históricos lo siguen referenciando.
func (uc *ProductUseCase) Deactivate(ctx context.Context, companyID, productID string) error {
	product, err := uc.getOwned(ctx, companyID, productID)
	if err != nil {
		return err
	}
	return uc.productRepo.SetActive(ctx, product.ID, false)
}

// AddPrice agrega una entrada al historial de precios. El historial es
// append-only: un "cambio de precio" es siempre una fila nueva.
// effectiveFrom en cero significa vigente desde ahora.
func (uc *ProductUseCase) AddPrice(ctx context.Context, companyID, productID string, price decimal.Decimal, effectiveFrom time.Time) (*entity.ProductPrice, error) {
	if price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.getOwned(ctx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if effectiveFrom.IsZero() {
		effectiveFrom = time.Now()
	}
	entry := &entity.ProductPrice{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		ProductID:     product.ID,
		Price:         price,
		EffectiveFrom: effectiveFrom,
		CreatedAt:     time.Now(),
	}
	if err := uc.priceRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListPrices devuelve el historial de precios de un producto, reciente primero.
func (uc *ProductUseCase) ListPrices(ctx context.Context, companyID, productID string, limit int) ([]*entity.ProductPrice, error) {
	if _, err := uc.getOwned(ctx, companyID, productID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 30
	}
	return uc.priceRepo.ListByProduct(ctx, companyID, productID, limit)
}

func (uc *ProductUseCase) getOwned(ctx context.Context, companyID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}
