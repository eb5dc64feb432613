package handler

import (
	"net/http"

	"github.com/jrodash2/Cotiza/internal/apierror"
	"github.com/jrodash2/Cotiza/internal/dto"
	"github.com/jrodash2/Cotiza/internal/middleware"
	"github.com/jrodash2/Cotiza/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CotizacionesHandler struct{ svc service.CotizacionService }

func NewCotizacionesHandler(svc service.CotizacionService) *CotizacionesHandler {
	return &CotizacionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear cotización
// @Description  Guarda cabecera e ítems como una unidad atómica y asigna el
// @Description  siguiente correlativo de 5 dígitos. Los campos de costo solo
// @Description  aparecen en la respuesta para usuarios staff.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GuardarCotizacionRequest true "Cabecera e ítems"
// @Success      201 {object} dto.CotizacionResponse
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/cotizaciones [post]
func (h *CotizacionesHandler) Crear(c *gin.Context) {
	var req dto.GuardarCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req, middleware.CanViewCosts(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar cotizaciones
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CotizacionListResponse
// @Router       /v1/cotizaciones [get]
func (h *CotizacionesHandler) Listar(c *gin.Context) {
	var filter dto.PageFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter, middleware.CanViewCosts(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cotizaciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Obtener cotización por ID
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la cotización"
// @Success      200 {object} dto.CotizacionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cotizaciones/{id} [get]
func (h *CotizacionesHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id, middleware.CanViewCosts(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar cotización
// @Description  Aplica la edición de cabecera y la colección de ediciones de
// @Description  ítems (altas, cambios y bajas) en una sola transacción. El
// @Description  correlativo asignado nunca cambia.
// @Tags         cotizaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la cotización"
// @Param        body body dto.GuardarCotizacionRequest true "Cabecera e ítems"
// @Success      200 {object} dto.CotizacionResponse
// @Failure      404 {object} apierror.APIError
// @Failure      422 {object} apierror.ValidationError
// @Router       /v1/cotizaciones/{id} [put]
func (h *CotizacionesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.GuardarCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req, middleware.CanViewCosts(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar cotización
// @Description  Borra la cotización y sus ítems. El número correlativo que
// @Description  tenía asignado no se reutiliza.
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la cotización"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cotizaciones/{id} [delete]
func (h *CotizacionesHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Recalcular godoc
// @Summary      Recalcular totales
// @Description  Vuelve a derivar los tres agregados a partir de los ítems
// @Description  vigentes. Operación idempotente.
// @Tags         cotizaciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la cotización"
// @Success      200 {object} dto.CotizacionResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cotizaciones/{id}/recalcular [post]
func (h *CotizacionesHandler) Recalcular(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.RecalcularTotales(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id, middleware.CanViewCosts(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
