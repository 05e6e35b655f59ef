package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

// SellerUseCase administra el registro de vendedores de la empresa.
type SellerUseCase struct {
	sellerRepo repository.SellerRepository
}

// NewSellerUseCase construye el caso de uso.
func NewSellerUseCase(sellerRepo repository.SellerRepository) *SellerUseCase {
	return &SellerUseCase{sellerRepo: sellerRepo}
}

// Create registra un vendedor nuevo, activo por defecto.
func (uc *SellerUseCase) Create(ctx context.Context, companyID, fullName string) (*entity.Seller, error) {
	if companyID == "" || fullName == "" {
		return nil, domain.ErrInvalidInput
	}
	seller := &entity.Seller{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		FullName:  fullName,
		Status:    entity.SellerActivo,
		CreatedAt: time.Now(),
	}
	if err := uc.sellerRepo.Create(ctx, seller); err != nil {
		return nil, err
	}
	return seller, nil
}

// List devuelve los vendedores de la empresa.
func (uc *SellerUseCase) List(ctx context.Context, companyID string) ([]*entity.Seller, error) {
	return uc.sellerRepo.ListByCompany(ctx, companyID)
}

// SetStatus cambia el estatus del vendedor (ACTIVO/INACTIVO).
func (uc *SellerUseCase) SetStatus(ctx context.Context, companyID, sellerID, status string) error {
	if status != entity.SellerActivo && status != entity.SellerInactivo {
		return domain.ErrInvalidInput
	}
	seller, err := uc.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}
	if seller == nil {
		return domain.ErrNotFound
	}
	if seller.CompanyID != companyID {
		return domain.ErrForbidden
	}
	return uc.sellerRepo.UpdateStatus(ctx, companyID, sellerID, status)
}
