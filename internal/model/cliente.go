package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente is the customer record referenced by cotizaciones.
// Deletion is restricted while any cotizacion points at it.
type Cliente struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nombre       string    `gorm:"index;not null"`
	Contacto     string
	Telefono     string
	Email        string
	Direccion    string
	NIT          string `gorm:"column:nit"`
	Municipio    string
	Departamento string
	Notas        string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c *Cliente) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
