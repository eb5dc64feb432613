package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HistorialPrecio registra cada cambio de precio de un producto/servicio.
// Los registros son inmutables — nunca se eliminan ni modifican.
type HistorialPrecio struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CostoAntes   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CostoDespues decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentaAntes   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	VentaDespues decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Motivo       string          `gorm:"not null;default:'actualizacion_manual'"`
	CreatedAt    time.Time

	Producto *ProductoServicio `gorm:"foreignKey:ProductoID"`
}

func (h *HistorialPrecio) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
