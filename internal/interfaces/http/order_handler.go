package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/routiva/routiva-api/internal/application/dto"
	"github.com/routiva/routiva-api/internal/application/orders"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/internal/domain/entity"
	"github.com/routiva/routiva-api/pkg/jwt"
	"github.com/routiva/routiva-api/pkg/validator"
)

// OrderHandler maneja las peticiones HTTP de pedidos (protegido).
type OrderHandler struct {
	uc *orders.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// CreateDraft godoc
// @Summary      Crear pedido en borrador
// @Description  Congela el precio vigente de cada línea. No toca inventario.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDraftRequest  true  "cliente_id, punto_venta_id, vendedor_id, items"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) CreateDraft(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	actorID := GetActorID(c)
	if companyID == "" || actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Summary(errs)})
	}
	orderID, err := h.uc.CreateDraft(c.Context(), orders.CreateDraftInput{
		CompanyID:     companyID,
		ActorID:       actorID,
		ClientID:      in.ClientID,
		PointOfSaleID: in.PointOfSaleID,
		SellerID:      in.SellerID,
		Lines:         toLineRequests(in.Lines),
	})
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": orderID})
}

// Confirm godoc
// @Summary      Confirmar un pedido en borrador
// @Description  Descuenta inventario de almacén por cada línea, todo o nada. La segunda confirmación falla con NOT_CONFIRMABLE.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	actorID := GetActorID(c)
	if companyID == "" || actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderID := c.Params("id")
	if err := h.uc.Confirm(c.Context(), companyID, actorID, orderID); err != nil {
		return mapOrderError(c, err)
	}
	return c.JSON(fiber.Map{"message": "pedido confirmado"})
}

// ConfirmAtStop godoc
// @Summary      Venta en parada de ruta (app de vendedor)
// @Description  Crea y confirma el pedido en una sola operación. El inventario sale de la carga del vendedor si trae existencia de lo pedido; si no, del almacén.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StopOrderRequest  true  "cliente_id, punto_venta_id, items"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/stop [post]
func (h *OrderHandler) ConfirmAtStop(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	sellerID := GetActorID(c)
	if companyID == "" || sellerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.StopOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Summary(errs)})
	}
	orderID, err := h.uc.ConfirmAtStop(c.Context(), orders.ConfirmAtStopInput{
		CompanyID:     companyID,
		SellerID:      sellerID,
		ClientID:      in.ClientID,
		PointOfSaleID: in.PointOfSaleID,
		Lines:         toLineRequests(in.Lines),
	})
	if err != nil {
		return mapOrderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": orderID})
}

// GetByID godoc
// @Summary      Detalle de un pedido con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderID := c.Params("id")
	order, err := h.uc.GetOrder(c.Context(), companyID, orderID)
	if err != nil {
		return mapOrderError(c, err)
	}
	items, err := h.uc.ListItems(c.Context(), companyID, orderID)
	if err != nil {
		return mapOrderError(c, err)
	}
	itemDTOs := make([]dto.OrderItemDTO, 0, len(items))
	for _, it := range items {
		itemDTOs = append(itemDTOs, dto.OrderItemDTO{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return c.JSON(fiber.Map{
		"pedido": toOrderDTO(order),
		"items":  itemDTOs,
	})
}

// List godoc
// @Summary      Listar pedidos recientes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        vendedor_id  query  string  false  "Filtrar por vendedor (UUID)"
// @Param        limit        query  int     false  "Máximo de filas (default 30)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.OrderDTO
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()

	sellerID := c.Query("vendedor_id")
	// Un vendedor solo ve sus propios pedidos.
	if GetRole(c) == jwt.RoleVendedor {
		sellerID = GetActorID(c)
	}
	list, err := h.uc.ListOrders(c.Context(), companyID, sellerID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.OrderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderDTO(o))
	}
	return c.JSON(out)
}

func toLineRequests(lines []dto.OrderLineRequest) []orders.LineRequest {
	out := make([]orders.LineRequest, 0, len(lines))
	for _, l := range lines {
		out = append(out, orders.LineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func toOrderDTO(o *entity.Order) dto.OrderDTO {
	return dto.OrderDTO{
		ID:            o.ID,
		ClientID:      o.ClientID,
		PointOfSaleID: o.PointOfSaleID,
		SellerID:      o.SellerID,
		Total:         o.Total,
		Status:        o.Status,
		Date:          o.Date,
	}
}

func mapOrderError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput, domain.ErrInvalidQuantity, domain.ErrEmptyOrder:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.ErrMissingPrice:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MISSING_PRICE", Message: err.Error()})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case domain.ErrNotConfirmable:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_CONFIRMABLE", Message: err.Error()})
	case domain.ErrInsufficientStock:
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
