package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tipo values for ProductoServicio.
const (
	TipoProducto = "PRODUCTO"
	TipoServicio = "SERVICIO"
)

// ProductoServicio is a catalog entry quoted in cotizacion line items.
// Its prices are snapshotted into each item at save time — later catalog
// price changes never touch already-saved items.
type ProductoServicio struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tipo        string    `gorm:"type:varchar(20);not null"` // PRODUCTO | SERVICIO
	Nombre      string    `gorm:"index;not null"`
	Descripcion string    `gorm:"type:text"`
	Unidad      string
	PrecioCosto decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *ProductoServicio) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
