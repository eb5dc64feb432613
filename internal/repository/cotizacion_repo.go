package repository

import (
	"context"

	"github.com/jrodash2/Cotiza/internal/dto"
	"github.com/jrodash2/Cotiza/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totales carries the three aggregate sums of a cotizacion's live items.
type Totales struct {
	SubtotalVenta decimal.Decimal
	SubtotalCosto decimal.Decimal
	GananciaTotal decimal.Decimal
}

// CotizacionRepository is the persistence contract for cotizaciones and their
// items. Item mutations take an explicit *gorm.DB so the service can run the
// whole save — header, items and the final aggregate write — in one
// transaction.
type CotizacionRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.Cotizacion) error
	UpdateTx(ctx context.Context, tx *gorm.DB, c *model.Cotizacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error)
	List(ctx context.Context, filter dto.PageFilter) ([]model.Cotizacion, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateItemTx(ctx context.Context, tx *gorm.DB, item *model.CotizacionItem) error
	UpdateItemTx(ctx context.Context, tx *gorm.DB, item *model.CotizacionItem) error
	DeleteItemTx(ctx context.Context, tx *gorm.DB, cotizacionID, itemID uuid.UUID) error
	FindItemTx(ctx context.Context, tx *gorm.DB, cotizacionID, itemID uuid.UUID) (*model.CotizacionItem, error)

	// SumItemsTx sums total_linea_venta / total_linea_costo / ganancia_linea
	// over the cotizacion's current items; a cotizacion with no items yields
	// 0.00 for all three.
	SumItemsTx(ctx context.Context, tx *gorm.DB, cotizacionID uuid.UUID) (Totales, error)
	UpdateTotalesTx(ctx context.Context, tx *gorm.DB, cotizacionID uuid.UUID, t Totales) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type cotizacionRepo struct{ db *gorm.DB }

func NewCotizacionRepository(db *gorm.DB) CotizacionRepository { return &cotizacionRepo{db: db} }

func (r *cotizacionRepo) DB() *gorm.DB { return r.db }

func (r *cotizacionRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.Cotizacion) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *cotizacionRepo) UpdateTx(ctx context.Context, tx *gorm.DB, c *model.Cotizacion) error {
	return tx.WithContext(ctx).Omit("Items", "Cliente").Save(c).Error
}

func (r *cotizacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	var c model.Cotizacion
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Items.ProductoServicio").
		Preload("Cliente").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cotizacionRepo) List(ctx context.Context, filter dto.PageFilter) ([]model.Cotizacion, int64, error) {
	var cotizaciones []model.Cotizacion
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cotizacion{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Cliente").
		Order("fecha_emision DESC, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&cotizaciones).Error
	return cotizaciones, total, err
}

// Delete removes the cotizacion and cascades to its items. The explicit item
// delete keeps the cascade working on databases where the FK constraint was
// not created (sqlite test runs).
func (r *cotizacionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.CotizacionItem{}, "cotizacion_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cotizacion{}, "id = ?", id).Error
	})
}

func (r *cotizacionRepo) CreateItemTx(ctx context.Context, tx *gorm.DB, item *model.CotizacionItem) error {
	return tx.WithContext(ctx).Create(item).Error
}

func (r *cotizacionRepo) UpdateItemTx(ctx context.Context, tx *gorm.DB, item *model.CotizacionItem) error {
	return tx.WithContext(ctx).Omit("ProductoServicio").Save(item).Error
}

func (r *cotizacionRepo) DeleteItemTx(ctx context.Context, tx *gorm.DB, cotizacionID, itemID uuid.UUID) error {
	return tx.WithContext(ctx).
		Where("cotizacion_id = ?", cotizacionID).
		Delete(&model.CotizacionItem{}, "id = ?", itemID).Error
}

func (r *cotizacionRepo) FindItemTx(ctx context.Context, tx *gorm.DB, cotizacionID, itemID uuid.UUID) (*model.CotizacionItem, error) {
	var item model.CotizacionItem
	err := tx.WithContext(ctx).
		Where("cotizacion_id = ?", cotizacionID).
		First(&item, "id = ?", itemID).Error
	return &item, err
}

func (r *cotizacionRepo) SumItemsTx(ctx context.Context, tx *gorm.DB, cotizacionID uuid.UUID) (Totales, error) {
	var row struct {
		SubtotalVenta decimal.Decimal
		SubtotalCosto decimal.Decimal
		GananciaTotal decimal.Decimal
	}
	err := tx.WithContext(ctx).Model(&model.CotizacionItem{}).
		Select(`COALESCE(SUM(total_linea_venta), 0) AS subtotal_venta,
			COALESCE(SUM(total_linea_costo), 0) AS subtotal_costo,
			COALESCE(SUM(ganancia_linea), 0) AS ganancia_total`).
		Where("cotizacion_id = ?", cotizacionID).
		Scan(&row).Error
	return Totales{
		SubtotalVenta: row.SubtotalVenta,
		SubtotalCosto: row.SubtotalCosto,
		GananciaTotal: row.GananciaTotal,
	}, err
}

func (r *cotizacionRepo) UpdateTotalesTx(ctx context.Context, tx *gorm.DB, cotizacionID uuid.UUID, t Totales) error {
	return tx.WithContext(ctx).Model(&model.Cotizacion{}).
		Where("id = ?", cotizacionID).
		Updates(map[string]interface{}{
			"subtotal_venta": t.SubtotalVenta,
			"subtotal_costo": t.SubtotalCosto,
			"ganancia_total": t.GananciaTotal,
		}).Error
}
