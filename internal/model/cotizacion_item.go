package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CotizacionItem is one line of a cotizacion: a quantity of one
// producto/servicio at unit prices copied from the catalog at save time.
// TotalLineaVenta, TotalLineaCosto and GananciaLinea are derived:
//
//	total_linea_venta = cantidad × precio_venta_unitario
//	total_linea_costo = cantidad × precio_costo_unitario
//	ganancia_linea    = total_linea_venta − total_linea_costo
//
// Display order is created_at then id.
type CotizacionItem struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CotizacionID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoServicioID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	DescripcionEditable string          `gorm:"type:text"`
	Cantidad            decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1.00"`
	PrecioVentaUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioCostoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalLineaVenta     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalLineaCosto     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GananciaLinea       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt           time.Time

	ProductoServicio *ProductoServicio `gorm:"foreignKey:ProductoServicioID"`
}

func (i *CotizacionItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
