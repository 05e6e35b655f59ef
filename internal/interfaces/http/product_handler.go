package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/routiva/routiva-api/internal/application/dto"
	"github.com/routiva/routiva-api/internal/application/usecase"
	"github.com/routiva/routiva-api/internal/domain"
	"github.com/routiva/routiva-api/pkg/validator"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "nombre, unidad"
// @Success      201   {object}  dto.ProductDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Summary(errs)})
	}
	product, err := h.uc.Create(c.Context(), companyID, in.Name, in.Unit)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductDTO{
		ID: product.ID, Name: product.Name, Unit: product.Unit, Active: product.Active,
	})
}

// List godoc
// @Summary      Listar productos de la empresa
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        activos  query  bool  false  "Solo productos activos"
// @Success      200  {array}  dto.ProductDTO
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	onlyActive := c.QueryBool("activos")
	products, err := h.uc.List(c.Context(), companyID, onlyActive)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductDTO{ID: p.ID, Name: p.Name, Unit: p.Unit, Active: p.Active})
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar un producto
// @Description  El producto no se borra; los pedidos y movimientos históricos lo siguen referenciando.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Deactivate(c.Context(), companyID, c.Params("id")); err != nil {
		return mapCatalogError(c, err)
	}
	return c.JSON(fiber.Map{"message": "producto desactivado"})
}

// AddPrice godoc
// @Summary      Agregar precio al historial de un producto
// @Description  El historial es append-only. vigente_desde omitido = vigente desde ahora; una fecha futura programa el precio.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del producto"
// @Param        body  body  dto.AddPriceRequest  true  "precio, vigente_desde"
// @Success      201   {object}  dto.PriceDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/prices [post]
func (h *ProductHandler) AddPrice(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AddPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Summary(errs)})
	}
	var effectiveFrom time.Time
	if in.EffectiveFrom != nil {
		effectiveFrom = *in.EffectiveFrom
	}
	entry, err := h.uc.AddPrice(c.Context(), companyID, c.Params("id"), in.Price, effectiveFrom)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PriceDTO{
		ID:            entry.ID,
		ProductID:     entry.ProductID,
		Price:         entry.Price,
		EffectiveFrom: entry.EffectiveFrom,
	})
}

// ListPrices godoc
// @Summary      Historial de precios de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        limit  query  int     false  "Máximo de filas (default 30)"
// @Success      200  {array}  dto.PriceDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/prices [get]
func (h *ProductHandler) ListPrices(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit := c.QueryInt("limit")
	prices, err := h.uc.ListPrices(c.Context(), companyID, c.Params("id"), limit)
	if err != nil {
		return mapCatalogError(c, err)
	}
	out := make([]dto.PriceDTO, 0, len(prices))
	for _, p := range prices {
		out = append(out, dto.PriceDTO{
			ID:            p.ID,
			ProductID:     p.ProductID,
			Price:         p.Price,
			EffectiveFrom: p.EffectiveFrom,
		})
	}
	return c.JSON(out)
}

func mapCatalogError(c *fiber.Ctx, err error) error {
	switch err {
	case domain.ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case domain.ErrForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
