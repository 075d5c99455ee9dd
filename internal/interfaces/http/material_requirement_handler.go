package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/application/planning"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// MaterialRequirementHandler ciclo de vida, cálculo y exportación de requerimientos de materiales.
type MaterialRequirementHandler struct {
	uc    *planning.MaterialRequirementUseCase
	valid *Validator
}

// NewMaterialRequirementHandler construye el handler.
func NewMaterialRequirementHandler(uc *planning.MaterialRequirementUseCase, v *Validator) *MaterialRequirementHandler {
	return &MaterialRequirementHandler{uc: uc, valid: v}
}

// List godoc
// @Summary      Listar requerimientos de materiales
// @Tags         material-requirements
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "draft, calculated, processing, completed o cancelled"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.MaterialRequirementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements [get]
func (h *MaterialRequirementHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener requerimiento
// @Tags         material-requirements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Requirement ID"
// @Success      200  {object}  dto.MaterialRequirementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements/{id} [get]
func (h *MaterialRequirementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetDetails godoc
// @Summary      Requerimiento con órdenes origen resueltas
// @Tags         material-requirements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Requirement ID"
// @Success      200  {object}  dto.MaterialRequirementDetailsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements/{id}/details [get]
func (h *MaterialRequirementHandler) GetDetails(c *fiber.Ctx) error {
	out, err := h.uc.GetDetails(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear requerimiento de materiales
// @Tags         material-requirements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateMaterialRequirementRequest  true  "Configuración y órdenes origen"
// @Success      201   {object}  dto.MaterialRequirementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements [post]
func (h *MaterialRequirementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequirementRequest
	if err := parseBody(c, h.valid, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar requerimiento
// @Description  Solo en draft o calculated. No recalcula.
// @Tags         material-requirements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                                true  "Requirement ID"
// @Param        body  body  dto.UpdateMaterialRequirementRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.MaterialRequirementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements/{id} [patch]
func (h *MaterialRequirementHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMaterialRequirementRequest
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
// @Summary      Eliminar requerimiento
// @Tags         material-requirements
// @Security     BearerAuth
// @Param        id   path  string  true  "Requirement ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements/{id} [delete]
func (h *MaterialRequirementHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Calculate godoc
// @Summary      Calcular requerimiento
// @Description  Explota las BOMs de las órdenes origen, aplica stock y planifica fechas. Atómico.
// @Tags         material-requirements
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Requirement ID"
// @Success      200  {object}  dto.MaterialRequirementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements/{id}/calculate [post]
func (h *MaterialRequirementHandler) Calculate(c *fiber.Ctx) error {
	out, err := h.uc.Calculate(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Transición manual de estado
// @Tags         material-requirements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "Requirement ID"
// @Param        body  body  dto.ChangeStatusRequest  true  "processing, completed o cancelled"
// @Success      200   {object}  dto.MaterialRequirementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements/{id}/status [post]
func (h *MaterialRequirementHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := parseBody(c, h.valid, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportXLSX godoc
// @Summary      Hoja de compras (XLSX)
// @Tags         material-requirements
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        id   path  string  true  "Requirement ID"
// @Success      200  {file}  file
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements/{id}/export.xlsx [get]
func (h *MaterialRequirementHandler) ExportXLSX(c *fiber.Ctx) error {
	content, filename, err := h.uc.ExportSpreadsheet(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, contentTypeXLSX, filename, content)
}

// ReportPDF godoc
// @Summary      Informe de requerimiento (PDF)
// @Tags         material-requirements
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "Requirement ID"
// @Success      200  {file}  file
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/material-requirements/{id}/report.pdf [get]
func (h *MaterialRequirementHandler) ReportPDF(c *fiber.Ctx) error {
	content, filename, err := h.uc.ReportPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, contentTypePDF, filename, content)
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, content []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(content)
}
