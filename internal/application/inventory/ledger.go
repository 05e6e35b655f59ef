package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
)

// LedgerUseCase mantiene consistentes las existencias por ubicación y su
// bitácora de movimientos. Cada operación que toca una existencia bloquea la
// fila (SELECT FOR UPDATE) y escribe existencia y movimiento en la misma
// transacción: dos lecturas concurrentes del mismo saldo se serializan.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	movRepo     repository.MovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		stockRepo:   stockRepo,
		movRepo:     movRepo,
	}
}

// MovementInput entrada para registrar un movimiento sobre una ubicación.
// Para ENTRADA/SALIDA/MERMA, Quantity es la magnitud (> 0).
// Para AJUSTE, Quantity es la existencia objetivo (>= 0), no un delta.
type MovementInput struct {
	CompanyID    string
	ActorID      string
	ProductID    string
	LocationKind string // ALMACEN | VENDEDOR
	LocationID   string
	Type         string // ENTRADA | SALIDA | MERMA | AJUSTE
	Quantity     int64
}

// GetBalance devuelve la existencia actual de un producto en una ubicación.
// La ausencia de fila significa cero, no "no encontrado".
func (uc *LedgerUseCase) GetBalance(ctx context.Context, companyID, productID, locationKind, locationID string) (int64, error) {
	stock, err := uc.stockRepo.Get(ctx, companyID, productID, locationKind, locationID)
	if err != nil {
		return 0, err
	}
	return stock.Quantity, nil
}

// ApplyMovement valida la entrada, bloquea la fila de existencia y aplica el
// movimiento; escribe la nueva existencia y exactamente una fila de bitácora
// en la misma transacción. VENTA no se acepta por esta vía: solo el motor de
// pedidos la genera, con referencia al pedido.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, input MovementInput) error {
	switch input.Type {
	case entity.MovementEntrada, entity.MovementSalida, entity.MovementMerma:
		if input.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
	case entity.MovementAjuste:
		if input.Quantity < 0 {
			return domain.ErrInvalidTarget
		}
	default:
		return domain.ErrInvalidInput
	}
	if err := uc.validateLocation(input.CompanyID, input.LocationKind, input.LocationID); err != nil {
		return err
	}

	// Validar que el producto exista y sea de la empresa
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

	now := time.Now()

	return uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(ctx, input.CompanyID, input.ProductID, input.LocationKind, input.LocationID)
		if err != nil {
			return err
		}

		magnitude := input.Quantity
		switch input.Type {
		case entity.MovementEntrada:
			stock.Quantity += input.Quantity
		case entity.MovementSalida, entity.MovementMerma:
			if input.Quantity > stock.Quantity {
				return domain.ErrInsufficientStock
			}
			stock.Quantity -= input.Quantity
		case entity.MovementAjuste:
			// Quantity es el objetivo; la bitácora guarda |objetivo - actual|.
			// Un ajuste a la existencia actual deja magnitud 0 y aun así se
			// registra: la auditoría conserva que alguien hizo el conteo.
			magnitude = input.Quantity - stock.Quantity
			if magnitude < 0 {
				magnitude = -magnitude
			}
			stock.Quantity = input.Quantity
		}

		stock.UpdatedAt = now
		if err := stockRepo.Upsert(ctx, stock); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			CompanyID: input.CompanyID,
			ProductID: input.ProductID,
			Type:      input.Type,
			Quantity:  magnitude,
			Date:      now,
			CreatedBy: input.ActorID,
		}
		if input.Type == entity.MovementAjuste {
			ref := entity.ReferenceAjuste
			mov.ReferenceKind = &ref
		}
		return movRepo.Create(ctx, mov)
	})
}

// validateLocation verifica la coherencia (empresa, tipo de ubicación, id).
// El almacén de la empresa usa su propio ID como ubicación.
func (uc *LedgerUseCase) validateLocation(companyID, locationKind, locationID string) error {
	switch locationKind {
	case entity.LocationAlmacen:
		if locationID != companyID {
			return domain.ErrInvalidInput
		}
	case entity.LocationVendedor:
		if locationID == "" {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// ProductBalance resume la existencia de un producto para los listados.
type ProductBalance struct {
	Product  *entity.Product
	Quantity int64
}

// WarehouseSummary lista todos los productos de la empresa con su existencia
// en almacén (cero para los que no tienen fila de inventario).
func (uc *LedgerUseCase) WarehouseSummary(ctx context.Context, companyID string) ([]ProductBalance, error) {
	products, err := uc.productRepo.ListByCompany(ctx, companyID, false)
	if err != nil {
		return nil, err
	}
	stocks, err := uc.stockRepo.ListByLocation(ctx, companyID, entity.LocationAlmacen, companyID)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]int64, len(stocks))
	for _, s := range stocks {
		byProduct[s.ProductID] = s.Quantity
	}
	out := make([]ProductBalance, 0, len(products))
	for _, p := range products {
		out = append(out, ProductBalance{Product: p, Quantity: byProduct[p.ID]})
	}
	return out, nil
}

// SellerHoldings lista las existencias en poder de vendedores de la empresa.
func (uc *LedgerUseCase) SellerHoldings(ctx context.Context, companyID string) ([]*entity.Stock, error) {
	return uc.stockRepo.ListSellerHoldings(ctx, companyID)
}

// RecentMovements devuelve la bitácora más reciente de la empresa.
func (uc *LedgerUseCase) RecentMovements(ctx context.Context, companyID string, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 30
	}
	return uc.movRepo.ListByCompany(ctx, companyID, limit, offset)
}

// ProductMovements devuelve la bitácora de un producto, reciente primero.
func (uc *LedgerUseCase) ProductMovements(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = 30
	}
	return uc.movRepo.ListByProduct(ctx, companyID, productID, limit, offset)
}
