package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/application/usecase"
)

// BOMHandler maneja las listas de materiales.
type BOMHandler struct {
	uc    *usecase.BOMUseCase
	valid *Validator
}

// NewBOMHandler construye el handler de BOMs.
func NewBOMHandler(uc *usecase.BOMUseCase, v *Validator) *BOMHandler {
	return &BOMHandler{uc: uc, valid: v}
}

// Create godoc
// @Summary      Crear BOM
// @Tags         boms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateBOMRequest  true  "BOM con sus líneas"
// @Success      201   {object}  dto.BOMResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/boms [post]
func (h *BOMHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBOMRequest
	if err := parseBody(c, h.valid, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener BOM por ID
// @Tags         boms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "BOM ID"
// @Success      200  {object}  dto.BOMResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/boms/{id} [get]
func (h *BOMHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar BOMs
// @Tags         boms
// @Produce      json
// @Security     BearerAuth
// @Param        product_id  query  string  false  "Producto"
// @Param        is_active   query  bool    false  "Activas/inactivas"
// @Param        limit       query  int     false  "Límite"
// @Param        offset      query  int     false  "Offset"
// @Success      200  {object}  dto.BOMListResponse
// @Router       /api/v1/boms [get]
func (h *BOMHandler) List(c *fiber.Ctx) error {
	active, err := queryBool(c, "is_active")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), dto.BOMFilterRequest{
		ProductID:   c.Query("product_id"),
		IsActive:    active,
		PageRequest: pageFromQuery(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar BOM
// @Description  Si se envía items, reemplaza todas las líneas.
// @Tags         boms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                true  "BOM ID"
// @Param        body  body  dto.UpdateBOMRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BOMResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/boms/{id} [put]
func (h *BOMHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBOMRequest
	if err := parseBody(c, h.valid, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar BOM
// @Tags         boms
// @Security     BearerAuth
// @Param        id   path  string  true  "BOM ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/boms/{id} [delete]
func (h *BOMHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
