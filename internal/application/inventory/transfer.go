package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

// Direcciones de una transferencia entre almacén y vendedor.
const (
	DirectionAsignar  = "ASIGNAR"  // almacén -> vendedor
	DirectionDevolver = "DEVOLVER" // vendedor -> almacén
)

// TransferUseCase mueve existencia entre el almacén y la carga de un vendedor.
// Las dos existencias se bloquean y escriben en una sola transacción, siempre
// en el mismo orden (primero la fila de almacén, luego la de vendedor) para
// que transferencias concurrentes no puedan interbloquearse. La suma de
// unidades almacén+vendedores de un producto se conserva en cada transferencia.
type TransferUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	sellerRepo  repository.SellerRepository
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	sellerRepo repository.SellerRepository,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		sellerRepo:  sellerRepo,
	}
}

// TransferInput entrada para una transferencia.
// RequestID es opcional: si el caller lo envía (UUID propio), un reintento del
// mismo request ya aplicado no vuelve a mover existencia.
type TransferInput struct {
	CompanyID string
	ActorID   string
	ProductID string
	SellerID  string
	Direction string // ASIGNAR | DEVOLVER
	Quantity  int64
	RequestID string
}

// Transfer ejecuta la transferencia. La bitácora registra una sola fila por
// transferencia: SALIDA con referencia AJUSTE al asignar, ENTRADA con
// referencia DEVOLUCION al devolver, con el vendedor como referencia.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) error {
	if input.Direction != DirectionAsignar && input.Direction != DirectionDevolver {
		return domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}

	seller, err := uc.sellerRepo.GetByID(ctx, input.SellerID)
	if err != nil {
		return err
	}
	if seller == nil {
		return domain.ErrNotFound
	}
	if seller.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}
	// A un vendedor inactivo no se le asigna carga nueva; sí puede devolver la que tenga.
	if input.Direction == DirectionAsignar && seller.Status != entity.SellerActivo {
		return domain.ErrInvalidInput
	}

	now := time.Now()
	movementID := input.RequestID
	if movementID == "" {
		movementID = uuid.New().String()
	}

	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		// Idempotencia: si el movimiento de este request ya existe, la
		// transferencia ya se aplicó completa (era atómica) y no se repite.
		if input.RequestID != "" {
			existing, err := movRepo.GetByID(ctx, input.RequestID)
			if err != nil {
				return err
			}
			if existing != nil {
				return nil
			}
		}

		warehouse, err := stockRepo.GetForUpdate(ctx, input.CompanyID, input.ProductID, entity.LocationAlmacen, input.CompanyID)
		if err != nil {
			return err
		}
		sellerStock, err := stockRepo.GetForUpdate(ctx, input.CompanyID, input.ProductID, entity.LocationVendedor, input.SellerID)
		if err != nil {
			return err
		}

		var mov *entity.StockMovement
		switch input.Direction {
		case DirectionAsignar:
			if input.Quantity > warehouse.Quantity {
				return domain.ErrInsufficientWarehouseStock
			}
			warehouse.Quantity -= input.Quantity
			sellerStock.Quantity += input.Quantity
			ref := entity.ReferenceAjuste
			mov = &entity.StockMovement{
				ID:            movementID,
				CompanyID:     input.CompanyID,
				ProductID:     input.ProductID,
				Type:          entity.MovementSalida,
				Quantity:      input.Quantity,
				ReferenceKind: &ref,
				ReferenceID:   &input.SellerID,
				Date:          now,
				CreatedBy:     input.ActorID,
			}
		case DirectionDevolver:
			if input.Quantity > sellerStock.Quantity {
				return domain.ErrInsufficientSellerStock
			}
			sellerStock.Quantity -= input.Quantity
			warehouse.Quantity += input.Quantity
			ref := entity.ReferenceDevolucion
			mov = &entity.StockMovement{
				ID:            movementID,
				CompanyID:     input.CompanyID,
				ProductID:     input.ProductID,
				Type:          entity.MovementEntrada,
				Quantity:      input.Quantity,
				ReferenceKind: &ref,
				ReferenceID:   &input.SellerID,
				Date:          now,
				CreatedBy:     input.ActorID,
			}
		}

		warehouse.UpdatedAt = now
		sellerStock.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, warehouse); err != nil {
			return err
		}
		if err := stockRepo.Upsert(ctx, sellerStock); err != nil {
			return err
		}
		return movRepo.Create(ctx, mov)
	})
	// Dos reintentos del mismo request pueden pasar ambos la verificación de
	// existencia; el que pierde choca con la PK al insertar el movimiento. La
	// transacción del perdedor se revierte y su resultado es el mismo no-op.
	if input.RequestID != "" && errors.Is(err, domain.ErrDuplicate) {
		return nil
	}
	return err
}
