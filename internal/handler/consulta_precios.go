package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrodash2/Cotiza/internal/apierror"
	"github.com/jrodash2/Cotiza/internal/dto"
	"github.com/jrodash2/Cotiza/internal/middleware"
	"github.com/jrodash2/Cotiza/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const precioCacheTTL = 5 * time.Minute

// precioCacheEntry is what gets serialized into redis. It always carries the
// cost price; the per-caller gating happens at render time, never at cache
// time, so staff and non-staff callers can share one entry.
type precioCacheEntry struct {
	Nombre      string          `json:"nombre"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
}

type ConsultaPreciosHandler struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewConsultaPreciosHandler(repo repository.ProductoRepository, rdb *redis.Client) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{repo: repo, rdb: rdb}
}

// Consultar godoc
// @Summary      Consulta rápida de precios de catálogo
// @Description  Lectura con caché para armar cotizaciones desde el frontend.
// @Description  El precio de costo solo se incluye para usuarios staff.
// @Tags         precios
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id path string true "UUID del producto"
// @Success      200 {object} dto.ConsultaPreciosResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/precios/{producto_id} [get]
func (h *ConsultaPreciosHandler) Consultar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("producto_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}

	ctx := c.Request.Context()
	key := "precio:" + id.String()

	var entry precioCacheEntry
	hit := false
	if h.rdb != nil {
		if raw, err := h.rdb.Get(ctx, key).Result(); err == nil {
			if err := json.Unmarshal([]byte(raw), &entry); err == nil {
				hit = true
			}
		}
	}

	if !hit {
		producto, err := h.repo.FindByID(ctx, id)
		if err != nil {
			c.JSON(http.StatusNotFound, apierror.New("producto/servicio no encontrado"))
			return
		}
		entry = precioCacheEntry{
			Nombre:      producto.Nombre,
			PrecioVenta: producto.PrecioVenta,
			PrecioCosto: producto.PrecioCosto,
		}
		if h.rdb != nil {
			if raw, err := json.Marshal(entry); err == nil {
				if err := h.rdb.Set(ctx, key, raw, precioCacheTTL).Err(); err != nil {
					log.Warn().Err(err).Str("producto_id", id.String()).Msg("no se pudo cachear el precio")
				}
			}
		}
	}

	resp := dto.ConsultaPreciosResponse{
		ProductoID:  id.String(),
		Nombre:      entry.Nombre,
		PrecioVenta: entry.PrecioVenta,
	}
	if middleware.CanViewCosts(c) {
		costo := entry.PrecioCosto
		resp.PrecioCosto = &costo
	}
	c.JSON(http.StatusOK, resp)
}
