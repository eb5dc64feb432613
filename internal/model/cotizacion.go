package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Estado values for Cotizacion. The field is a label, not an enforced
// state machine: any estado can be set from any other by direct edit.
const (
	EstadoBorrador = "BORRADOR"
	EstadoEmitida  = "EMITIDA"
	EstadoAnulada  = "ANULADA"
)

// Defaults applied when the caller leaves the field blank.
const (
	ValidezDiasDefault   = 15
	GarantiaTextoDefault = "GARANTIA DE 6 MESES EN EQUIPOS E INSTALACIÓN"
)

// Cotizacion is the quotation header. The three aggregate columns always
// equal the sum of the matching per-line values over its current items;
// every item mutation recomputes them before the transaction commits.
type Cotizacion struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// Correlativo is assigned once on first persist and never changes.
	Correlativo   string    `gorm:"type:varchar(5);uniqueIndex;not null"`
	FechaEmision  time.Time `gorm:"type:date;not null"`
	ClienteID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Titulo        string
	ValidezDias   int    `gorm:"not null;default:15"`
	Observaciones string `gorm:"type:text"`
	GarantiaTexto string
	Estado        string          `gorm:"type:varchar(20);not null;default:'BORRADOR'"`
	SubtotalVenta decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SubtotalCosto decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GananciaTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt     time.Time

	Cliente *Cliente         `gorm:"foreignKey:ClienteID"`
	Items   []CotizacionItem `gorm:"foreignKey:CotizacionID;constraint:OnDelete:CASCADE"`
}

func (c *Cotizacion) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
