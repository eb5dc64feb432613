package model

// CorrelativoSingletonID is the fixed primary key of the one counter row.
const CorrelativoSingletonID = 1

// CotizacionCorrelativo is the singleton counter behind cotizacion numbering.
// Exactly one row (id = 1) exists; it is read and incremented under an
// exclusive row lock inside the same transaction that inserts the cotizacion.
type CotizacionCorrelativo struct {
	ID         int `gorm:"primaryKey"`
	LastNumber int `gorm:"not null;default:0"`
}
