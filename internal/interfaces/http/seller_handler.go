package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/routiva/routiva-api/internal/application/dto"
	"github.com/routiva/routiva-api/internal/application/usecase"
	"github.com/routiva/routiva-api/pkg/validator"
)

// SellerHandler maneja el registro de vendedores (protegido, solo dueño).
type SellerHandler struct {
	uc *usecase.SellerUseCase
}

// NewSellerHandler construye el handler.
func NewSellerHandler(uc *usecase.SellerUseCase) *SellerHandler {
	return &SellerHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar vendedor
// @Tags         sellers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSellerRequest  true  "nombre_completo"
// @Success      201   {object}  dto.SellerDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sellers [post]
func (h *SellerHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSellerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Summary(errs)})
	}
	seller, err := h.uc.Create(c.Context(), companyID, in.FullName)
	if err != nil {
		return mapCatalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SellerDTO{
		ID: seller.ID, FullName: seller.FullName, Status: seller.Status,
	})
}

// List godoc
// @Summary      Listar vendedores de la empresa
// @Tags         sellers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SellerDTO
// @Router       /api/sellers [get]
func (h *SellerHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	sellers, err := h.uc.List(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SellerDTO, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, dto.SellerDTO{ID: s.ID, FullName: s.FullName, Status: s.Status})
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estatus de un vendedor (ACTIVO/INACTIVO)
// @Description  A un vendedor INACTIVO no se le asigna carga nueva; su existencia en poder no cambia.
// @Tags         sellers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del vendedor"
// @Param        body  body  object  true  "status"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sellers/{id}/status [put]
func (h *SellerHandler) UpdateStatus(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in struct {
		Status string `json:"status" validate:"required,oneof=ACTIVO INACTIVO"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Summary(errs)})
	}
	if err := h.uc.SetStatus(c.Context(), companyID, c.Params("id"), in.Status); err != nil {
		return mapCatalogError(c, err)
	}
	return c.JSON(fiber.Map{"message": "estatus actualizado"})
}
