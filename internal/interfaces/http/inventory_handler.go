package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/routiva/routiva-api/internal/application/dto"
	"github.com/routiva/routiva-api/internal/application/inventory"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/pkg/validator"
)

// InventoryHandler maneja las peticiones HTTP de existencias, movimientos y
// transferencias (protegido).
type InventoryHandler struct {
	ledger   *inventory.LedgerUseCase
	transfer *inventory.TransferUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, transfer *inventory.TransferUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, transfer: transfer}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  ENTRADA/SALIDA/MERMA con cantidad > 0; AJUSTE con la existencia objetivo (>= 0). VENTA no se acepta por esta vía.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "producto_id, ubicacion_tipo, ubicacion_id, tipo, cantidad"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	actorID := GetActorID(c)
	if companyID == "" || actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Summary(errs)})
	}
	err := h.ledger.ApplyMovement(c.Context(), inventory.MovementInput{
		CompanyID:    companyID,
		ActorID:      actorID,
		ProductID:    in.ProductID,
		LocationKind: in.LocationKind,
		LocationID:   in.LocationID,
		Type:         in.Type,
		Quantity:     in.Quantity,
	})
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "movimiento registrado"})
}

// Transfer godoc
// @Summary      Transferir existencia entre almacén y vendedor
// @Description  ASIGNAR mueve almacén -> vendedor; DEVOLVER, vendedor -> almacén. request_id opcional hace el reintento seguro.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "producto_id, vendedor_id, direccion, cantidad, request_id"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	actorID := GetActorID(c)
	if companyID == "" || actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Summary(errs)})
	}
	err := h.transfer.Transfer(c.Context(), inventory.TransferInput{
		CompanyID: companyID,
		ActorID:   actorID,
		ProductID: in.ProductID,
		SellerID:  in.SellerID,
		Direction: in.Direction,
		Quantity:  in.Quantity,
		RequestID: in.RequestID,
	})
	if err != nil {
		return mapInventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "transferencia aplicada"})
}

// WarehouseSummary godoc
// @Summary      Resumen de existencias en almacén
// @Description  Todos los productos de la empresa con su existencia en almacén (cero si nunca se ha movido).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.BalanceItemDTO
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) WarehouseSummary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	balances, err := h.ledger.WarehouseSummary(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BalanceItemDTO, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.BalanceItemDTO{
			ProductID:   b.Product.ID,
			ProductName: b.Product.Name,
			Unit:        b.Product.Unit,
			Active:      b.Product.Active,
			Quantity:    b.Quantity,
		})
	}
	return c.JSON(out)
}

// SellerHoldings godoc
// @Summary      Existencias en poder de vendedores
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SellerHoldingDTO
// @Router       /api/inventory/sellers [get]
func (h *InventoryHandler) SellerHoldings(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	stocks, err := h.ledger.SellerHoldings(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SellerHoldingDTO, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, dto.SellerHoldingDTO{
			SellerID:  s.LocationID,
			ProductID: s.ProductID,
			Quantity:  s.Quantity,
		})
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Bitácora de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  string  false  "Filtrar por producto (UUID)"
// @Param        limit        query  int     false  "Máximo de filas (default 30)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovementDTO
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()

	productID := c.Query("producto_id")
	var (
		movements []*entity.StockMovement
		err       error
	)
	if productID != "" {
		movements, err = h.ledger.ProductMovements(c.Context(), companyID, productID, page.Limit, page.Offset)
	} else {
		movements, err = h.ledger.RecentMovements(c.Context(), companyID, page.Limit, page.Offset)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementDTO, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementDTO{
			ID:            m.ID,
			ProductID:     m.ProductID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			ReferenceKind: m.ReferenceKind,
			ReferenceID:   m.ReferenceID,
			Date:          m.Date,
		})
	}
	return c.JSON(out)
}

func mapInventoryError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput, domain.ErrInvalidQuantity, domain.ErrInvalidTarget:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case domain.ErrInsufficientWarehouseStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_WAREHOUSE_STOCK", Message: err.Error()})
	case domain.ErrInsufficientSellerStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_SELLER_STOCK", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
