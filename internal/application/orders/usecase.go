package orders

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/routiva/routiva-api/internal/application/pricing"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// OrderUseCase crea borradores de pedido y los confirma consumiendo
// inventario. Confirmar es la única transición que define este motor:
// BORRADOR -> CONFIRMADO, exactamente una vez.
type OrderUseCase struct {
	txRunner   TxRunner
	resolver   *pricing.Resolver
	orderRepo  repository.OrderRepository
	sellerRepo repository.SellerRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner TxRunner,
	resolver *pricing.Resolver,
	orderRepo repository.OrderRepository,
	sellerRepo repository.SellerRepository,
) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, resolver: resolver, orderRepo: orderRepo, sellerRepo: sellerRepo}
}

// LineRequest es una línea solicitada al crear un pedido.
type LineRequest struct {
	ProductID string
	Quantity  int64
}

// CreateDraftInput entrada para crear un borrador.
type CreateDraftInput struct {
	CompanyID     string
	ActorID       string
	ClientID      string
	PointOfSaleID string
	SellerID      string
	Lines         []LineRequest
}

// CreateDraft crea el pedido en BORRADOR con los precios vigentes congelados
// por línea. No toca inventario: los borradores no reservan existencia.
// Si algún producto no tiene precio vigente no se crea nada (ErrMissingPrice).
func (uc *OrderUseCase) CreateDraft(ctx context.Context, input CreateDraftInput) (string, error) {
	if input.ClientID == "" || input.PointOfSaleID == "" || input.SellerID == "" {
		return "", domain.ErrInvalidInput
	}
	if len(input.Lines) == 0 {
		return "", domain.ErrEmptyOrder
	}
	for _, line := range input.Lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return "", domain.ErrInvalidQuantity
		}
	}

	productIDs := make([]string, 0, len(input.Lines))
	for _, line := range input.Lines {
		productIDs = append(productIDs, line.ProductID)
	}
	prices, err := uc.resolver.CurrentPrices(ctx, input.CompanyID, productIDs)
	if err != nil {
		return "", err
	}

	now := time.Now()
	orderID := uuid.New().String()
	items := make([]*entity.OrderItem, 0, len(input.Lines))
	total := decimal.Zero
	for _, line := range input.Lines {
		price, ok := prices[line.ProductID]
		if !ok {
			return "", domain.ErrMissingPrice
		}
		// El redondeo a 2 decimales se aplica por línea, no al total.
		subtotal := price.Price.Mul(decimal.NewFromInt(line.Quantity)).Round(2)
		total = total.Add(subtotal)
		items = append(items, &entity.OrderItem{
			ID:        uuid.New().String(),
			CompanyID: input.CompanyID,
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: price.Price,
			Subtotal:  subtotal,
		})
	}

	order := &entity.Order{
		ID:            orderID,
		CompanyID:     input.CompanyID,
		ClientID:      input.ClientID,
		PointOfSaleID: input.PointOfSaleID,
		SellerID:      input.SellerID,
		Total:         total,
		Status:        entity.OrderBorrador,
		Date:          now,
	}

	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.StockRepository,
		_ repository.MovementRepository,
	) error {
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for _, item := range items {
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return orderID, nil
}

// Confirm consume inventario de almacén para cada línea y marca el pedido
// CONFIRMADO. Primero bloquea y verifica todas las existencias; si a
// cualquier línea le falta inventario no se escribe nada (ErrInsufficientStock
// y rollback). Confirmar dos veces no es idempotente: la segunda llamada
// falla con ErrNotConfirmable y el inventario se descuenta una sola vez.
func (uc *OrderUseCase) Confirm(ctx context.Context, companyID, actorID, orderID string) error {
	return uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderBorrador {
			return domain.ErrNotConfirmable
		}

		items, err := orderRepo.ListItems(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			// CreateDraft no deja pedidos vacíos; defensa en profundidad.
			return domain.ErrEmptyOrder
		}

		stocks, err := lockAndCheck(ctx, stockRepo, companyID, entity.LocationAlmacen, companyID, items)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, item := range items {
			stock := stocks[item.ProductID]
			stock.Quantity -= item.Quantity
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(ctx, stock); err != nil {
				return err
			}
			ref := entity.ReferencePedido
			refID := orderID
			mov := &entity.StockMovement{
				ID:            uuid.New().String(),
				CompanyID:     companyID,
				ProductID:     item.ProductID,
				Type:          entity.MovementVenta,
				Quantity:      item.Quantity,
				ReferenceKind: &ref,
				ReferenceID:   &refID,
				Date:          now,
				CreatedBy:     actorID,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
		}

		return orderRepo.UpdateStatus(ctx, companyID, orderID, entity.OrderConfirmado)
	})
}

// lockAndCheck bloquea las existencias de los productos del pedido (en orden
// de producto, para un orden de bloqueo global estable) y verifica que
// alcancen. La demanda se agrega por producto: un pedido puede repetir líneas
// del mismo producto y la verificación va contra la suma, no línea por línea.
// Devuelve las filas bloqueadas listas para decrementar.
func lockAndCheck(
	ctx context.Context,
	stockRepo repository.StockRepository,
	companyID, locationKind, locationID string,
	items []*entity.OrderItem,
) (map[string]*entity.Stock, error) {
	needed := make(map[string]int64, len(items))
	productIDs := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := needed[item.ProductID]; !ok {
			productIDs = append(productIDs, item.ProductID)
		}
		needed[item.ProductID] += item.Quantity
	}
	sort.Strings(productIDs)

	stocks := make(map[string]*entity.Stock, len(productIDs))
	for _, productID := range productIDs {
		stock, err := stockRepo.GetForUpdate(ctx, companyID, productID, locationKind, locationID)
		if err != nil {
			return nil, err
		}
		stocks[productID] = stock
	}
	for productID, quantity := range needed {
		if quantity > stocks[productID].Quantity {
			return nil, domain.ErrInsufficientStock
		}
	}
	return stocks, nil
}

// GetOrder devuelve un pedido por ID.
func (uc *OrderUseCase) GetOrder(ctx context.Context, companyID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// ListOrders lista pedidos recientes de la empresa; sellerID vacío lista todos.
func (uc *OrderUseCase) ListOrders(ctx context.Context, companyID, sellerID string, limit, offset int) ([]*entity.Order, error) {
	if limit <= 0 {
		limit = 30
	}
	return uc.orderRepo.ListByCompany(ctx, companyID, sellerID, limit, offset)
}

// ListItems devuelve las líneas de un pedido.
func (uc *OrderUseCase) ListItems(ctx context.Context, companyID, orderID string) ([]*entity.OrderItem, error) {
	return uc.orderRepo.ListItems(ctx, companyID, orderID)
}
