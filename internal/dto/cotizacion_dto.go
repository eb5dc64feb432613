package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemCotizacionRequest is one entry of the item edit collection sent with a
// cotizacion save. Exactly one of three intents applies:
//   - ID nil                → create a new item
//   - ID set                → update the existing item
//   - ID set + Eliminar     → delete the existing item
//
// Unit prices left nil are snapshotted from the producto's current catalog
// prices at save time; an empty descripcion defaults from the producto too.
type ItemCotizacionRequest struct {
	ID                  *string          `json:"id" validate:"omitempty,uuid"`
	ProductoServicioID  string           `json:"producto_servicio_id" validate:"omitempty,uuid"`
	DescripcionEditable string           `json:"descripcion_editable"`
	Cantidad            decimal.Decimal  `json:"cantidad"`
	PrecioVentaUnitario *decimal.Decimal `json:"precio_venta_unitario"`
	PrecioCostoUnitario *decimal.Decimal `json:"precio_costo_unitario"`
	Eliminar            bool             `json:"eliminar"`
}

// GuardarCotizacionRequest is the atomic header-plus-items payload for both
// POST /v1/cotizaciones and PUT /v1/cotizaciones/:id. Either every header and
// item change commits, or none do.
type GuardarCotizacionRequest struct {
	ClienteID     string                  `json:"cliente_id" validate:"required,uuid"`
	Titulo        string                  `json:"titulo" validate:"max=255"`
	ValidezDias   *int                    `json:"validez_dias"`
	Observaciones string                  `json:"observaciones"`
	GarantiaTexto *string                 `json:"garantia_texto"`
	Estado        string                  `json:"estado" validate:"omitempty,oneof=BORRADOR EMITIDA ANULADA"`
	Items         []ItemCotizacionRequest `json:"items" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// ItemCotizacionResponse renders one line item. Cost-bearing fields
// (precio_costo_unitario, total_linea_costo, ganancia_linea) are pointers:
// they are only populated for staff callers, never for regular ones. The
// stored row always carries them.
type ItemCotizacionResponse struct {
	ID                  string           `json:"id"`
	ProductoServicioID  string           `json:"producto_servicio_id"`
	ProductoNombre      string           `json:"producto_nombre"`
	DescripcionEditable string           `json:"descripcion_editable"`
	Cantidad            decimal.Decimal  `json:"cantidad"`
	PrecioVentaUnitario decimal.Decimal  `json:"precio_venta_unitario"`
	PrecioCostoUnitario *decimal.Decimal `json:"precio_costo_unitario,omitempty"`
	TotalLineaVenta     decimal.Decimal  `json:"total_linea_venta"`
	TotalLineaCosto     *decimal.Decimal `json:"total_linea_costo,omitempty"`
	GananciaLinea       *decimal.Decimal `json:"ganancia_linea,omitempty"`
}

type CotizacionResponse struct {
	ID            string                   `json:"id"`
	Correlativo   string                   `json:"correlativo"`
	FechaEmision  string                   `json:"fecha_emision"`
	ClienteID     string                   `json:"cliente_id"`
	ClienteNombre string                   `json:"cliente_nombre"`
	Titulo        string                   `json:"titulo"`
	ValidezDias   int                      `json:"validez_dias"`
	Observaciones string                   `json:"observaciones"`
	GarantiaTexto string                   `json:"garantia_texto"`
	Estado        string                   `json:"estado"`
	SubtotalVenta decimal.Decimal          `json:"subtotal_venta"`
	SubtotalCosto *decimal.Decimal         `json:"subtotal_costo,omitempty"`
	GananciaTotal *decimal.Decimal         `json:"ganancia_total,omitempty"`
	Items         []ItemCotizacionResponse `json:"items"`
	CreatedAt     string                   `json:"created_at"`
}

// CotizacionListItem omits the items collection for the list view.
type CotizacionListItem struct {
	ID            string           `json:"id"`
	Correlativo   string           `json:"correlativo"`
	FechaEmision  string           `json:"fecha_emision"`
	ClienteNombre string           `json:"cliente_nombre"`
	Titulo        string           `json:"titulo"`
	Estado        string           `json:"estado"`
	SubtotalVenta decimal.Decimal  `json:"subtotal_venta"`
	SubtotalCosto *decimal.Decimal `json:"subtotal_costo,omitempty"`
	GananciaTotal *decimal.Decimal `json:"ganancia_total,omitempty"`
}

type CotizacionListResponse struct {
	Data  []CotizacionListItem `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// PageFilter is the shared plain pagination binding for list endpoints.
type PageFilter struct {
	Page  int `form:"page,default=1" validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=200"`
}
