package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ConfirmAtStopInput entrada para la venta en parada de ruta. El vendedor es
// a la vez el actor y el dueño de la carga de la que puede salir el producto.
type ConfirmAtStopInput struct {
	CompanyID     string
	SellerID      string
	ClientID      string
	PointOfSaleID string
	Lines         []LineRequest
}

// ConfirmAtStop fusiona crear y confirmar para la venta en punto de venta:
// la acción en campo es una venta ya cerrada, así que el pedido nace
// CONFIRMADO sin pasar por BORRADOR. El inventario sale de la carga del
// vendedor si este trae existencia de alguno de los productos pedidos; solo si
// no trae ninguno se usa el almacén. La fuente se elige una vez por pedido
// (nunca por línea) para no mezclar venta de camión y de almacén en los
// movimientos de un mismo pedido.
func (uc *OrderUseCase) ConfirmAtStop(ctx context.Context, input ConfirmAtStopInput) (string, error) {
	if input.ClientID == "" || input.PointOfSaleID == "" {
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

	seller, err := uc.sellerRepo.GetByID(ctx, input.SellerID)
	if err != nil {
		return "", err
	}
	if seller == nil {
		return "", domain.ErrNotFound
	}
	if seller.CompanyID != input.CompanyID {
		return "", domain.ErrForbidden
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

	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
	) error {
		// Elegir la fuente: carga del vendedor si trae algo de lo pedido.
		locationKind, locationID := entity.LocationAlmacen, input.CompanyID
		for _, item := range items {
			held, err := stockRepo.Get(ctx, input.CompanyID, item.ProductID, entity.LocationVendedor, input.SellerID)
			if err != nil {
				return err
			}
			if held.Quantity > 0 {
				locationKind, locationID = entity.LocationVendedor, input.SellerID
				break
			}
		}

		stocks, err := lockAndCheck(ctx, stockRepo, input.CompanyID, locationKind, locationID, items)
		if err != nil {
			return err
		}

		order := &entity.Order{
			ID:            orderID,
			CompanyID:     input.CompanyID,
			ClientID:      input.ClientID,
			PointOfSaleID: input.PointOfSaleID,
			SellerID:      input.SellerID,
			Total:         total,
			Status:        entity.OrderConfirmado,
			Date:          now,
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for _, item := range items {
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}

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
				CompanyID:     input.CompanyID,
				ProductID:     item.ProductID,
				Type:          entity.MovementVenta,
				Quantity:      item.Quantity,
				ReferenceKind: &ref,
				ReferenceID:   &refID,
				Date:          now,
				CreatedBy:     input.SellerID,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
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
