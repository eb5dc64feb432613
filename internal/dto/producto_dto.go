package dto

import "github.com/shopspring/decimal"

// GuardarProductoRequest covers both POST and PUT of /v1/productos.
type GuardarProductoRequest struct {
	Tipo        string          `json:"tipo" validate:"required,oneof=PRODUCTO SERVICIO"`
	Nombre      string          `json:"nombre" validate:"required,max=200"`
	Descripcion string          `json:"descripcion"`
	Unidad      string          `json:"unidad" validate:"max=50"`
	PrecioCosto decimal.Decimal `json:"precio_costo" validate:"min=0"`
	PrecioVenta decimal.Decimal `json:"precio_venta" validate:"min=0"`
	Activo      *bool           `json:"activo"`
}

// ProductoResponse never suppresses cost data on its own: the productos
// endpoints are staff-only, so PrecioCosto is always present here. The
// cost gating happens on cotizacion responses and the price lookup.
type ProductoResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	Unidad      string          `json:"unidad"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Activo      bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPreciosResponse is returned by GET /v1/precios/:producto_id.
// PrecioCosto is only filled for staff callers.
type ConsultaPreciosResponse struct {
	ProductoID  string           `json:"producto_id"`
	Nombre      string           `json:"nombre"`
	PrecioVenta decimal.Decimal  `json:"precio_venta"`
	PrecioCosto *decimal.Decimal `json:"precio_costo,omitempty"`
}

// HistorialPrecioResponse is one immutable price-change record.
type HistorialPrecioResponse struct {
	ID           string          `json:"id"`
	ProductoID   string          `json:"producto_id"`
	CostoAntes   decimal.Decimal `json:"costo_antes"`
	CostoDespues decimal.Decimal `json:"costo_despues"`
	VentaAntes   decimal.Decimal `json:"venta_antes"`
	VentaDespues decimal.Decimal `json:"venta_despues"`
	Motivo       string          `json:"motivo"`
	CreatedAt    string          `json:"created_at"`
}
